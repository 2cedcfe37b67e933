package am

import (
	"github.com/teranos/moodmap/catalog"
	"github.com/teranos/moodmap/errors"
)

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if _, err := catalog.ParseLang(c.Catalog.Language); err != nil {
		return errors.Wrap(err, "catalog.language")
	}

	if err := c.GetSomaticParams().Validate(); err != nil {
		return err
	}

	// Zero disables escalation, negative is invalid
	if c.Crisis.EscalationWindowDays < 0 {
		return errors.Newf("crisis.escalation_window_days must be >= 0, got %d", c.Crisis.EscalationWindowDays)
	}
	if c.Crisis.EscalationMinSessions < 0 {
		return errors.Newf("crisis.escalation_min_sessions must be >= 0, got %d", c.Crisis.EscalationMinSessions)
	}

	// Zero waits indefinitely, negative is invalid
	if c.Registry.LoadTimeoutSeconds < 0 {
		return errors.Newf("registry.load_timeout_seconds must be >= 0, got %d", c.Registry.LoadTimeoutSeconds)
	}
	for _, id := range c.Registry.Lazy {
		if id == "" {
			return errors.New("registry.lazy cannot contain an empty model id")
		}
	}

	return nil
}
