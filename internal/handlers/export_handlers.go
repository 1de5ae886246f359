package handlers

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"
	"go.uber.org/zap"
)

var exportHeaders = []string{
	"ID", "Slug", "SKU", "Name (AR)", "Name (EN)", "Category",
	"Price", "Stock", "Dozen Qty", "Size", "Featured", "Active",
	"Order", "Images", "Created At",
}

// ExportProducts streams every product as an .xlsx sheet for the admin.
func (h *Handlers) ExportProducts(c *gin.Context) {
	products, err := h.loadProducts("")
	if err != nil {
		h.internalError(c, "Failed to fetch products", err)
		return
	}

	categoryNames := map[string]string{}
	rows, err := h.DB.Query("SELECT id, name_ar, name_en FROM categories")
	if err != nil {
		h.internalError(c, "Failed to fetch categories", err)
		return
	}
	for rows.Next() {
		var id, ar, en string
		if err := rows.Scan(&id, &ar, &en); err != nil {
			rows.Close()
			h.internalError(c, "Failed to fetch categories", err)
			return
		}
		if en == "" {
			en = ar
		}
		categoryNames[id] = en
	}
	rows.Close()

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Products")
	if err != nil {
		h.internalError(c, "Failed to create Excel sheet", err)
		return
	}

	// Header row
	headerRow := sheet.AddRow()
	for _, title := range exportHeaders {
		headerRow.AddCell().SetValue(title)
	}

	// Data rows
	for _, p := range products {
		row := sheet.AddRow()
		row.AddCell().SetValue(p.ID)
		row.AddCell().SetValue(p.Slug)
		row.AddCell().SetValue(p.SKU)
		row.AddCell().SetValue(p.Name.AR)
		row.AddCell().SetValue(p.Name.EN)

		category := ""
		if p.CategoryID != nil {
			category = categoryNames[*p.CategoryID]
		}
		row.AddCell().SetValue(category)
		row.AddCell().SetValue(p.Price)
		row.AddCell().SetValue(p.Stock)
		if p.DozenQty != nil {
			row.AddCell().SetValue(*p.DozenQty)
		} else {
			row.AddCell().SetValue("")
		}
		row.AddCell().SetValue(p.Size)
		row.AddCell().SetValue(p.Featured)
		row.AddCell().SetValue(p.IsActive())
		row.AddCell().SetValue(p.Order)

		srcs := make([]string, len(p.Images))
		for i, img := range p.Images {
			srcs[i] = img.Src
		}
		row.AddCell().SetValue(strings.Join(srcs, ","))
		row.AddCell().SetValue(time.UnixMilli(p.CreatedAt).UTC().Format("2006-01-02 15:04:05"))
	}

	// Set response headers for download
	c.Header("Content-Disposition", "attachment; filename=products.xlsx")
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Transfer-Encoding", "binary")
	c.Header("Expires", "0")

	if err := file.Write(c.Writer); err != nil {
		h.log().Error("Failed to write Excel file", zap.Error(err))
	}
}
