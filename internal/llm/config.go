// Package llm wraps the language model used to enrich scraped job records.
package llm

// ModelTier is the capability level requested for a call.
type ModelTier string

const (
	// TierLite is for short structured extraction over a single listing.
	TierLite ModelTier = "lite"
	// TierStandard is for longer descriptions or batch prompts.
	TierStandard ModelTier = "standard"
)

// Provider names an LLM backend.
type Provider string

// ProviderGemini is the Google Gemini backend.
const ProviderGemini Provider = "gemini"

// Config maps tiers to model names.
type Config struct {
	Provider    Provider
	Models      map[ModelTier]string
	Temperature float32
	// MaxOutputTokens caps each reply. Zero leaves the model default.
	MaxOutputTokens int32
}

// DefaultConfig returns the Gemini configuration used by the enhancement stage.
func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
		},
		Temperature:     0.1,
		MaxOutputTokens: 1024,
	}
}

// GetModel returns the model for tier, falling back to the standard and then
// the lite model. It returns "" when nothing is configured.
func (c *Config) GetModel(tier ModelTier) string {
	for _, t := range []ModelTier{tier, TierStandard, TierLite} {
		if model, ok := c.Models[t]; ok && model != "" {
			return model
		}
	}
	return ""
}

// WithModel returns a copy of c with model set for tier.
func (c *Config) WithModel(tier ModelTier, model string) *Config {
	out := &Config{
		Provider:    c.Provider,
		Models:      make(map[ModelTier]string, len(c.Models)+1),
		Temperature:     c.Temperature,
		MaxOutputTokens: c.MaxOutputTokens,
	}
	for k, v := range c.Models {
		out.Models[k] = v
	}
	out.Models[tier] = model
	return out
}
