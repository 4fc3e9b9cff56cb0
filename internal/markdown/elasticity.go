// internal/markdown/elasticity.go
package markdown

// ElasticityModel maps product categories to price elasticity of demand.
// More negative means more price-sensitive.
type ElasticityModel struct {
	byCategory map[string]float64
	fallback   float64
}

// NewElasticityModel returns the default per-category elasticity table.
func NewElasticityModel() *ElasticityModel {
	return &ElasticityModel{
		byCategory: map[string]float64{
			"Produce": -1.5,
			"Dairy":   -1.2,
			"Deli":    -1.8,
			"Bakery":  -1.4,
			"Meat":    -1.6,
		},
		fallback: -1.3,
	}
}

// Elasticity returns the coefficient for a category, or the default for
// unknown ones.
func (e *ElasticityModel) Elasticity(category string) float64 {
	if v, ok := e.byCategory[category]; ok {
		return v
	}
	return e.fallback
}
