package forms

import (
	"cafes/model"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

const maxMemory = 32 << 20

// Errors maps a form field name to its message. An empty map means the
// submission was valid.
type Errors map[string]string

func (e Errors) Valid() bool {
	return len(e) == 0
}

type CafeForm struct {
	Name         string  `form:"name" json:"name" binding:"required,max=250"`
	MapURL       string  `form:"map_url" json:"map_url" binding:"required,url,max=250"`
	ImgURL       string  `form:"img_url" json:"img_url" binding:"required,url,max=250"`
	Location     string  `form:"location" json:"location" binding:"required,max=100"`
	HasSockets   Amenity `form:"has_sockets" json:"has_sockets" binding:"required,oneof=present absent"`
	HasToilet    Amenity `form:"has_toilet" json:"has_toilet" binding:"required,oneof=present absent"`
	HasWifi      Amenity `form:"has_wifi" json:"has_wifi" binding:"required,oneof=present absent"`
	CanTakeCalls Amenity `form:"can_take_calls" json:"can_take_calls" binding:"required,oneof=present absent"`
	Seats        string  `form:"seats" json:"seats" binding:"required,max=100"`
	CoffeePrice  string  `form:"coffee_price" json:"coffee_price" binding:"required,max=100"`
}

// CafeFormFrom pre-fills a form from a stored row.
func CafeFormFrom(cafe model.Cafe) CafeForm {
	return CafeForm{
		Name:         cafe.Name,
		MapURL:       cafe.MapURL,
		ImgURL:       cafe.ImgURL,
		Location:     cafe.Location,
		HasSockets:   ToDisplay(cafe.HasSockets),
		HasToilet:    ToDisplay(cafe.HasToilet),
		HasWifi:      ToDisplay(cafe.HasWifi),
		CanTakeCalls: ToDisplay(cafe.CanTakeCalls),
		Seats:        cafe.Seats,
		CoffeePrice:  cafe.CoffeePrice,
	}
}

// Apply overwrites every column of cafe except its ID.
func (f CafeForm) Apply(cafe *model.Cafe) {
	cafe.Name = f.Name
	cafe.MapURL = f.MapURL
	cafe.ImgURL = f.ImgURL
	cafe.Location = f.Location
	cafe.HasSockets = ToStorage(f.HasSockets)
	cafe.HasToilet = ToStorage(f.HasToilet)
	cafe.HasWifi = ToStorage(f.HasWifi)
	cafe.CanTakeCalls = ToStorage(f.CanTakeCalls)
	cafe.Seats = f.Seats
	cafe.CoffeePrice = f.CoffeePrice
}

// Validate trims the text fields and checks every rule.
func (f *CafeForm) Validate() Errors {
	for _, s := range []*string{&f.Name, &f.MapURL, &f.ImgURL, &f.Location, &f.Seats, &f.CoffeePrice} {
		*s = strings.TrimSpace(*s)
	}
	return validate(f)
}

type RegisterForm struct {
	Email    string `form:"email" json:"email" binding:"required,email,max=100"`
	Password string `form:"password" json:"password" binding:"required"`
}

// maxPasswordBytes is the longest input bcrypt accepts.
const maxPasswordBytes = 72

func (f *RegisterForm) Validate() Errors {
	f.Email = normalizeEmail(f.Email)
	errs := validate(f)
	if _, failed := errs["password"]; !failed && len(f.Password) > maxPasswordBytes {
		errs["password"] = fmt.Sprintf("Field cannot be longer than %d bytes.", maxPasswordBytes)
	}
	return errs
}

type LoginForm struct {
	Email    string `form:"email" json:"email" binding:"required,email"`
	Password string `form:"password" json:"password" binding:"required"`
}

func (f *LoginForm) Validate() Errors {
	f.Email = normalizeEmail(f.Email)
	return validate(f)
}

func BindCafe(c *gin.Context) (CafeForm, Errors) {
	var f CafeForm
	if errs := parse(c, &f); errs != nil {
		return f, errs
	}
	return f, f.Validate()
}

// BindCafeJSON reads a cafe from a JSON request body.
func BindCafeJSON(c *gin.Context) (CafeForm, Errors) {
	var f CafeForm
	if errs := parseJSON(c, &f); errs != nil {
		return f, errs
	}
	return f, f.Validate()
}

func BindRegister(c *gin.Context) (RegisterForm, Errors) {
	var f RegisterForm
	if errs := parse(c, &f); errs != nil {
		return f, errs
	}
	return f, f.Validate()
}

func BindLogin(c *gin.Context) (LoginForm, Errors) {
	var f LoginForm
	if errs := parse(c, &f); errs != nil {
		return f, errs
	}
	return f, f.Validate()
}

// BindLoginJSON reads credentials from a JSON request body.
func BindLoginJSON(c *gin.Context) (LoginForm, Errors) {
	var f LoginForm
	if errs := parseJSON(c, &f); errs != nil {
		return f, errs
	}
	return f, f.Validate()
}

func parse(c *gin.Context, form any) Errors {
	if err := c.Request.ParseMultipartForm(maxMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return Errors{"form": "The submission could not be read."}
	}
	if err := binding.MapFormWithTag(form, c.Request.PostForm, "form"); err != nil {
		return Errors{"form": "The submission could not be read."}
	}
	return nil
}

// parseJSON decodes the body; rule violations are left to Validate, which
// reports them per field after trimming.
func parseJSON(c *gin.Context, form any) Errors {
	if err := c.ShouldBindJSON(form); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return Errors{"form": "The submission could not be read."}
		}
	}
	return nil
}

func validate(form any) Errors {
	err := binding.Validator.ValidateStruct(form)
	if err == nil {
		return Errors{}
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return Errors{"form": err.Error()}
	}

	t := reflect.TypeOf(form)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	errs := Errors{}
	for _, fe := range verrs {
		name := fe.Field()
		if sf, ok := t.FieldByName(fe.StructField()); ok {
			name = sf.Tag.Get("form")
		}
		if _, seen := errs[name]; !seen {
			errs[name] = message(fe)
		}
	}
	return errs
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "url":
		return "Invalid URL."
	case "email":
		return "Invalid email address."
	case "oneof":
		return "Not a valid choice."
	case "max":
		return fmt.Sprintf("Field cannot be longer than %s characters.", fe.Param())
	default:
		return "Invalid value."
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
