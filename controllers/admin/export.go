package adminControllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"

	"github.com/MindSpaceMan/flora-site/remote"
)

// GET /admin/products/export-excel
func ExportProductsToExcel(client *remote.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		products, err := client.Products(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}

		file := xlsx.NewFile()
		sheet, err := file.AddSheet("Products")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel sheet"})
			return
		}

		headers := []string{
			"ID", "TitleRu", "LatinName", "Category", "HeightCm",
			"Slug", "Description", "Images",
		}
		headerRow := sheet.AddRow()
		for _, h := range headers {
			headerRow.AddCell().SetValue(h)
		}

		for _, p := range products {
			row := sheet.AddRow()
			row.AddCell().SetValue(p.ID)
			row.AddCell().SetValue(p.TitleRu)
			row.AddCell().SetValue(p.LatinName)
			row.AddCell().SetValue(p.Category.Name)
			row.AddCell().SetValue(strconv.Itoa(p.HeightCm))
			row.AddCell().SetValue(p.Slug)
			row.AddCell().SetValue(p.Description)

			var urls []string
			for _, img := range p.Images {
				if img.URL != nil {
					urls = append(urls, *img.URL)
				} else if img.LocalPath != nil {
					urls = append(urls, *img.LocalPath)
				}
			}
			row.AddCell().SetValue(strings.Join(urls, ","))
		}

		c.Header("Content-Disposition", "attachment; filename=products.xlsx")
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Transfer-Encoding", "binary")
		c.Header("Expires", "0")

		if err := file.Write(c.Writer); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write Excel file"})
		}
	}
}
