package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/xuri/excelize/v2"
)

const exportSheet = "Recordings"

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	f, err := exportWorkbook(s.store.List())
	if err != nil {
		s.writeJSON(w, 500, APIError{Error: err.Error()})
		return
	}
	defer f.Close()

	name := fmt.Sprintf("cg-recordings-%s.xlsx", time.Now().Format("20060102-150405"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	if err := f.Write(w); err != nil {
		// headers already sent; nothing left to report to the client
		return
	}
}

func exportWorkbook(records []Record) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, err
	}
	header := []interface{}{
		"Name", "Recorded at", "Front (g)", "Rear (g)", "Total (g)", "CG (mm)", "Stable",
	}
	if err := f.SetSheetRow(exportSheet, "A1", &header); err != nil {
		return nil, err
	}
	for i, rec := range records {
		cg := interface{}("out of range")
		if rec.CGKnown {
			cg = rec.CGMm
		}
		row := []interface{}{
			rec.Name,
			rec.At.Format(time.RFC3339),
			rec.FrontGrams,
			rec.RearGrams,
			rec.TotalGrams,
			cg,
			rec.Stable,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return nil, err
		}
	}
	return f, nil
}
