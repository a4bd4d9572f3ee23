// Package spreadsheet converts the cafe catalogue to and from .xlsx
// workbooks. Both directions use the same column layout on Sheet1.
package spreadsheet

import (
	"cafes/forms"
	"cafes/model"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/xuri/excelize/v2"
)

const SheetName = "Sheet1"

// Columns is the header row, in column order.
var Columns = []string{
	"name", "map_url", "img_url", "location",
	"has_sockets", "has_toilet", "has_wifi", "can_take_calls",
	"seats", "coffee_price",
}

var ErrNoRows = errors.New("spreadsheet must have at least one row of data")

// Read parses the workbook, skipping the header row. Rows that fail the
// same validation as the add form are skipped and counted.
func Read(r io.Reader) ([]model.Cafe, int, error) {
	xl, err := excelize.OpenReader(r)
	if err != nil {
		return nil, 0, fmt.Errorf("open spreadsheet: %w", err)
	}
	defer xl.Close()

	rows, err := xl.GetRows(SheetName)
	if err != nil {
		return nil, 0, fmt.Errorf("read %s: %w", SheetName, err)
	}
	if len(rows) < 2 {
		return nil, 0, ErrNoRows
	}

	var (
		cafes   []model.Cafe
		skipped int
	)
	for i, row := range rows[1:] {
		cafe, err := parseRow(row)
		if err != nil {
			log.Printf("spreadsheet: row %d skipped: %v", i+2, err)
			skipped++
			continue
		}
		cafes = append(cafes, cafe)
	}
	return cafes, skipped, nil
}

func parseRow(row []string) (model.Cafe, error) {
	// GetRows drops trailing empty cells.
	cells := make([]string, len(Columns))
	copy(cells, row)

	var amenities [4]forms.Amenity
	for j := range amenities {
		a, ok := forms.ParseAmenity(cells[4+j])
		if !ok {
			return model.Cafe{}, fmt.Errorf("%s: %q is not a valid choice", Columns[4+j], cells[4+j])
		}
		amenities[j] = a
	}

	form := forms.CafeForm{
		Name:         cells[0],
		MapURL:       cells[1],
		ImgURL:       cells[2],
		Location:     cells[3],
		HasSockets:   amenities[0],
		HasToilet:    amenities[1],
		HasWifi:      amenities[2],
		CanTakeCalls: amenities[3],
		Seats:        cells[8],
		CoffeePrice:  cells[9],
	}
	if errs := form.Validate(); !errs.Valid() {
		return model.Cafe{}, fmt.Errorf("invalid fields: %v", errs)
	}

	var cafe model.Cafe
	form.Apply(&cafe)
	return cafe, nil
}

// Write renders the cafes as a workbook with a header row.
func Write(w io.Writer, cafes []model.Cafe) error {
	xl := excelize.NewFile()
	defer xl.Close()

	header := make([]interface{}, len(Columns))
	for i, c := range Columns {
		header[i] = c
	}
	if err := xl.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, cafe := range cafes {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{
			cafe.Name, cafe.MapURL, cafe.ImgURL, cafe.Location,
			cafe.HasSockets, cafe.HasToilet, cafe.HasWifi, cafe.CanTakeCalls,
			cafe.Seats, cafe.CoffeePrice,
		}
		if err := xl.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := xl.Write(w); err != nil {
		return fmt.Errorf("write spreadsheet: %w", err)
	}
	return nil
}
