// Package langpack loads the per-language resources (rules, reflections
// and UI text) and builds conversation engines from them. All I/O happens
// in Load; a loaded Pack is read-only and can create any number of engines.
package langpack

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/rcliao/go-eliza/internal/eliza"
	"github.com/rcliao/go-eliza/internal/reflection"
	"github.com/rcliao/go-eliza/internal/rules"
)

// DefaultLang is used when no language is configured.
const DefaultLang = "us"

// ConfigLoadError reports a resource that could not be fetched or parsed.
type ConfigLoadError struct {
	Lang     string
	Resource string
	Err      error
}

func (e *ConfigLoadError) Error() string {
	return fmt.Sprintf("load %s pack: %s: %v", e.Lang, e.Resource, e.Err)
}

func (e *ConfigLoadError) Unwrap() error { return e.Err }

// Messages is the UI text shown around the conversation.
type Messages struct {
	Greetings []string `yaml:"greetings"`
	QuitWords []string `yaml:"quit_words"`
	Goodbye   string   `yaml:"goodbye"`
	Intro     string   `yaml:"intro"`
	Prompt    string   `yaml:"prompt"`
	Reboot    string   `yaml:"reboot"`
	Crash     []string `yaml:"crash"`
}

// Pack is a fully loaded language.
type Pack struct {
	Lang        string
	Rules       *rules.Set
	Reflections reflection.Table
	Messages    Messages

	logger zerolog.Logger
}

// ResourceNames returns the rules, reflections and messages resource names.
func ResourceNames(lang string) (rulesName, reflectionsName, messagesName string) {
	return "rules_" + lang + ".yaml", "reflections_" + lang + ".yaml", "messages_" + lang + ".yaml"
}

// Load fetches and parses the three resources of lang concurrently. Any
// failure is returned as a *ConfigLoadError and no Pack is produced.
func Load(ctx context.Context, src Source, lang string, logger zerolog.Logger) (*Pack, error) {
	if lang == "" {
		lang = DefaultLang
	}
	rn, fn, mn := ResourceNames(lang)
	p := &Pack{Lang: lang, logger: logger}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		data, err := src.Fetch(ctx, rn)
		if err != nil {
			return &ConfigLoadError{Lang: lang, Resource: rn, Err: err}
		}
		set, err := rules.Parse(data, logger.With().Str("resource", rn).Logger())
		if err != nil {
			return &ConfigLoadError{Lang: lang, Resource: rn, Err: err}
		}
		p.Rules = set
		return nil
	})
	g.Go(func() error {
		data, err := src.Fetch(ctx, fn)
		if err != nil {
			return &ConfigLoadError{Lang: lang, Resource: fn, Err: err}
		}
		table, err := reflection.Parse(data)
		if err != nil {
			return &ConfigLoadError{Lang: lang, Resource: fn, Err: err}
		}
		p.Reflections = table
		return nil
	})
	g.Go(func() error {
		data, err := src.Fetch(ctx, mn)
		if err != nil {
			return &ConfigLoadError{Lang: lang, Resource: mn, Err: err}
		}
		if err := yaml.Unmarshal(data, &p.Messages); err != nil {
			return &ConfigLoadError{Lang: lang, Resource: mn, Err: fmt.Errorf("parse messages: %w", err)}
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	logger.Debug().
		Str("lang", lang).
		Int("rules", len(p.Rules.Rules)).
		Int("reflections", p.Reflections.Len()).
		Msg("language pack loaded")
	return p, nil
}

// NewEngine creates an engine with its own conversation state.
func (p *Pack) NewEngine() *eliza.Engine {
	return eliza.New(p.Rules, p.Reflections, eliza.WithLogger(p.logger))
}

// IsQuit reports whether input is one of the pack's quit words.
func (p *Pack) IsQuit(input string) bool {
	for _, w := range p.Messages.QuitWords {
		if strings.EqualFold(strings.TrimSpace(input), w) {
			return true
		}
	}
	return false
}

// Greeting picks one of the pack's greetings at random.
func (p *Pack) Greeting() string {
	if len(p.Messages.Greetings) == 0 {
		return ""
	}
	return p.Messages.Greetings[rand.IntN(len(p.Messages.Greetings))]
}
