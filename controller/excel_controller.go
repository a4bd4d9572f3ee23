package controller

import (
	"bytes"
	"cafes/database"
	"cafes/spreadsheet"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	maxImportSize   = 5 << 20
)

func (ctl *Controller) ExportCafes(c *gin.Context) {
	cafes, err := ctl.cafes.All(c.Request.Context())
	if err != nil {
		ctl.serverError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := spreadsheet.Write(&buf, cafes); err != nil {
		ctl.serverError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="cafes.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// ImportCafes adds every valid row of an uploaded workbook. The batch is
// all or nothing: one duplicate aborts the whole import.
func (ctl *Controller) ImportCafes(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		ctl.sessions.AddFlash(c, "Choose a spreadsheet to import.")
		ctl.redirect(c, "/cafes")
		return
	}
	if fileHeader.Size > maxImportSize {
		ctl.sessions.AddFlash(c, "Spreadsheet exceeds the 5MB limit.")
		ctl.redirect(c, "/cafes")
		return
	}
	if ext := strings.ToLower(filepath.Ext(fileHeader.Filename)); ext != ".xlsx" {
		ctl.sessions.AddFlash(c, "Invalid file type, only .xlsx spreadsheets are accepted.")
		ctl.redirect(c, "/cafes")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		ctl.serverError(c, err)
		return
	}
	defer file.Close()

	cafes, skipped, err := spreadsheet.Read(file)
	if err != nil {
		ctl.sessions.AddFlash(c, "Failed to read spreadsheet: "+err.Error())
		ctl.redirect(c, "/cafes")
		return
	}

	created, err := ctl.cafes.CreateMany(c.Request.Context(), cafes)
	if err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			ctl.sessions.AddFlash(c, "Nothing imported: "+err.Error())
			ctl.redirect(c, "/cafes")
			return
		}
		ctl.serverError(c, err)
		return
	}

	ctl.metrics.Changed("import", created)
	ctl.sessions.AddFlash(c, fmt.Sprintf("Imported %d cafes, skipped %d rows", created, skipped))
	ctl.redirect(c, "/cafes")
}
