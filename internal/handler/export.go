package handler

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"myfinance/internal/models"
	"myfinance/internal/store"
	"myfinance/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

var exportHeaders = []string{"Date", "Type", "Category", "Description", "Amount", "Notes"}

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// exportRow flattens a record into the exported column order.
func exportRow(rec *store.TransactionRecord) []string {
	category := ""
	if rec.Category != nil {
		category = rec.Category.Name
	}
	notes := ""
	if rec.Notes != nil {
		notes = *rec.Notes
	}
	return []string{
		rec.Date,
		string(rec.Type),
		category,
		rec.Description,
		models.Money(rec.AmountCents).String(),
		notes,
	}
}

// exportRecords loads the caller's transactions using the list filters.
func (h *TransactionHandler) exportRecords(c *gin.Context) ([]store.TransactionRecord, bool) {
	id, ok := owner(c)
	if !ok {
		return nil, false
	}
	f, err := parseFilter(c)
	if err != nil {
		util.Fail(c, err)
		return nil, false
	}
	recs, err := h.Transactions.List(c.Request.Context(), id.ID, f)
	if err != nil {
		util.Fail(c, err)
		return nil, false
	}
	return recs, true
}

func attachment(c *gin.Context, ext string) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"transactions_%s.%s\"",
		time.Now().Format("20060102"), ext))
}

// ExportCSV streams the filtered transactions as CSV.
func (h *TransactionHandler) ExportCSV(c *gin.Context) {
	recs, ok := h.exportRecords(c)
	if !ok {
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	attachment(c, "csv")
	c.Status(http.StatusOK)

	w := csv.NewWriter(c.Writer)
	_ = w.Write(exportHeaders)
	for i := range recs {
		_ = w.Write(exportRow(&recs[i]))
	}
	w.Flush()
	if err := w.Error(); err != nil {
		_ = c.Error(err)
	}
}

// ExportXLSX writes the filtered transactions to a single-sheet workbook.
func (h *TransactionHandler) ExportXLSX(c *gin.Context) {
	recs, ok := h.exportRecords(c)
	if !ok {
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Transactions"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		util.Fail(c, util.Internal("failed to build workbook", err))
		return
	}

	for i, name := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, name)
	}
	for idx := range recs {
		row := exportRow(&recs[idx])
		for col, val := range row {
			cell, _ := excelize.CoordinatesToCellName(col+1, idx+2)
			if col == 4 {
				// amount as a number so spreadsheets can sum it
				_ = f.SetCellFloat(sheet, cell, float64(recs[idx].AmountCents)/100, 2, 64)
				continue
			}
			_ = f.SetCellValue(sheet, cell, val)
		}
	}

	_ = f.SetColWidth(sheet, "A", "B", 12)
	_ = f.SetColWidth(sheet, "C", "C", 18)
	_ = f.SetColWidth(sheet, "D", "D", 30)
	_ = f.SetColWidth(sheet, "E", "E", 12)
	_ = f.SetColWidth(sheet, "F", "F", 30)

	buf, err := f.WriteToBuffer()
	if err != nil {
		util.Fail(c, util.Internal("failed to export transactions", err))
		return
	}
	attachment(c, "xlsx")
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
