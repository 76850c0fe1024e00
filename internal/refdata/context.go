package refdata

import "github.com/stockit/analyzer/internal/domain"

// Context bundles the startup-loaded reference artifacts behind one immutable
// value: scaler, centroids and persona table. It is constructed once in main
// and injected into every pipeline service; nothing reloads it per request.
type Context struct {
	scaler     *Scaler
	classifier *Classifier
	personas   *PersonaTable
}

// NewContext assembles a reference context from validated parts.
func NewContext(scaler *Scaler, classifier *Classifier, personas *PersonaTable) *Context {
	return &Context{scaler: scaler, classifier: classifier, personas: personas}
}

// Personas returns the immutable persona table.
func (c *Context) Personas() *PersonaTable {
	return c.personas
}

// Normalize scales one raw feature record into the model's space.
func (c *Context) Normalize(f domain.RawFeatures) []float64 {
	return c.scaler.Transform(f)
}

// Classify assigns one stock to its style cluster.
func (c *Context) Classify(f domain.RawFeatures) int {
	return c.classifier.Predict(c.scaler.Transform(f))
}

// ClassifyBatch assigns a whole feature table, row for row.
func (c *Context) ClassifyBatch(features []domain.RawFeatures) []int {
	return c.classifier.PredictBatch(c.scaler.TransformBatch(features))
}

// ClassifyStock returns the cluster label together with its display tag and
// description, the shape the stock-analysis endpoint responds with.
func (c *Context) ClassifyStock(f domain.RawFeatures) (int, string, string) {
	cluster := c.Classify(f)
	return cluster, StyleTag(cluster), StyleDescription(cluster)
}
