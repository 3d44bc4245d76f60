package engines

import (
	"fmt"

	"wordlewatch/internal/config"
	"wordlewatch/internal/scraper"
	"wordlewatch/internal/scraper/engines/firecrawl"
	"wordlewatch/internal/scraper/engines/headed"
)

// NewEngine creates a rendering engine for the given engine name. "auto"
// resolves to the headed engine since the review page sits behind a
// verification wall that static fetchers cannot clear.
func NewEngine(cfg *config.Config, engine string) (scraper.Engine, error) {
	switch engine {
	case "headed", "auto", "":
		return headed.NewRodEngine(cfg), nil
	case "firecrawl":
		e := firecrawl.NewFirecrawlEngine(cfg)
		if e == nil {
			return nil, fmt.Errorf("failed to initialize firecrawl engine")
		}
		return e, nil
	default:
		return nil, fmt.Errorf("unsupported rendering engine: %s", engine)
	}
}

// SupportedEngines returns the list of engine names NewEngine accepts.
func SupportedEngines() []string {
	return []string{"headed", "firecrawl", "auto"}
}
