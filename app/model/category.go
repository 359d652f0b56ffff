package model

import "strings"

type Category string

const (
	CategoryPaymentReceived Category = "pago_recibido"
	CategoryServiceReport   Category = "reporte_servicio"
	CategoryGeneralQuestion Category = "duda_general"
	CategoryNewClient       Category = "nuevo_cliente"
	CategoryUnclassified    Category = "conversacion_no_clasificada"
	CategoryTechnicalIssue  Category = "problema_tecnico"
)

var Categories = []Category{
	CategoryPaymentReceived,
	CategoryServiceReport,
	CategoryGeneralQuestion,
	CategoryNewClient,
	CategoryUnclassified,
	CategoryTechnicalIssue,
}

// ParseCategory maps a raw classifier token onto a known category.
// Unknown tokens are reported with ok=false.
func ParseCategory(raw string) (Category, bool) {
	token := strings.ToLower(strings.TrimSpace(raw))
	token = strings.Trim(token, "\"'`.,;: \n\t")

	for _, c := range Categories {
		if string(c) == token {
			return c, true
		}
	}

	return CategoryUnclassified, false
}
