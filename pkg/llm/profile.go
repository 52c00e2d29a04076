package llm

import (
	"fmt"
	"os"
	"sort"

	"github.com/ethanbaker/chatbot/pkg/utils"
	"gopkg.in/yaml.v3"
)

// Provider names used in profiles
const (
	ProviderReplicate = "replicate"
	ProviderOpenAI    = "openai"
)

// Defaults for the built-in profile
const (
	DefaultProfileName  = "llama-2-13b-chat"
	DefaultModel        = "meta/llama-2-13b-chat:f4e2de70d66816a838a89eeeb621910adffb0dd0baba3976c96980970978018d"
	DefaultSystemPrompt = "You are a nice chatbot having a conversation with a human."
	DefaultGreeting     = "Hello human. How can I help you?"
)

// Profile describes which model to call and how
type Profile struct {
	Name            string `yaml:"-" json:"name"`
	Provider        string `yaml:"provider" json:"provider"`
	Model           string `yaml:"model" json:"model"`
	Params          Params `yaml:"params" json:"params"`
	SystemPrompt    string `yaml:"system_prompt" json:"system_prompt"`
	Greeting        string `yaml:"greeting" json:"greeting"`
	CredentialLabel string `yaml:"credential_label" json:"credential_label"`
}

// ProfileSet is the content of a model profile file
type ProfileSet struct {
	Default  string              `yaml:"default"`
	Profiles map[string]*Profile `yaml:"profiles"`
}

// DefaultProfile returns the built-in Llama 2 chat profile on Replicate
func DefaultProfile() *Profile {
	return &Profile{
		Name:     DefaultProfileName,
		Provider: ProviderReplicate,
		Model:    DefaultModel,
		Params: Params{
			Temperature: 0.75,
			MaxLength:   1500,
			TopP:        1,
		},
		SystemPrompt:    DefaultSystemPrompt,
		Greeting:        DefaultGreeting,
		CredentialLabel: "Replicate API Token",
	}
}

// LoadProfiles reads a yaml profile file
func LoadProfiles(path string) (*ProfileSet, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profiles %s: %w", path, err)
	}

	var set ProfileSet
	if err := yaml.Unmarshal(content, &set); err != nil {
		return nil, fmt.Errorf("failed to parse profiles %s: %w", path, err)
	}

	if len(set.Profiles) == 0 {
		return nil, fmt.Errorf("no profiles defined in %s", path)
	}

	for name, profile := range set.Profiles {
		if profile == nil {
			return nil, fmt.Errorf("profile %q is empty", name)
		}
		profile.Name = name
		if err := profile.normalize(); err != nil {
			return nil, fmt.Errorf("profile %q: %w", name, err)
		}
	}

	return &set, nil
}

// Get returns the named profile, or the set's default when name is empty
func (s *ProfileSet) Get(name string) (*Profile, error) {
	if name == "" {
		name = s.Default
	}

	// A single profile is its own default
	if name == "" && len(s.Profiles) == 1 {
		for _, profile := range s.Profiles {
			return profile, nil
		}
	}

	profile, ok := s.Profiles[name]
	if !ok {
		return nil, fmt.Errorf("unknown model profile %q (available: %v)", name, s.Names())
	}
	return profile, nil
}

// Names lists the profile names in sorted order
func (s *ProfileSet) Names() []string {
	names := make([]string, 0, len(s.Profiles))
	for name := range s.Profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// normalize fills unset fields and validates the profile
func (p *Profile) normalize() error {
	if p.Provider == "" {
		p.Provider = ProviderReplicate
	}
	if p.Model == "" {
		return fmt.Errorf("model is required")
	}
	if p.SystemPrompt == "" {
		p.SystemPrompt = DefaultSystemPrompt
	}
	if p.Greeting == "" {
		p.Greeting = DefaultGreeting
	}

	switch p.Provider {
	case ProviderReplicate:
		if p.CredentialLabel == "" {
			p.CredentialLabel = "Replicate API Token"
		}
	case ProviderOpenAI:
		if p.CredentialLabel == "" {
			p.CredentialLabel = "OpenAI API Key"
		}
	default:
		return fmt.Errorf("unsupported provider %q", p.Provider)
	}

	return nil
}

// ResolveProfile picks the active profile from MODEL_PROFILES_FILE and MODEL_PROFILE,
// falling back to the built-in profile when no file is configured.
// SYSTEM_PROMPT_FILE and the MODEL_TEMPERATURE, MODEL_MAX_LENGTH and MODEL_TOP_P
// settings override the chosen profile.
func ResolveProfile(cfg *utils.Config) (*Profile, error) {
	profile := DefaultProfile()

	if path := cfg.Get("MODEL_PROFILES_FILE"); path != "" {
		set, err := LoadProfiles(path)
		if err != nil {
			return nil, err
		}

		profile, err = set.Get(cfg.Get("MODEL_PROFILE"))
		if err != nil {
			return nil, err
		}
	}

	profile.SystemPrompt = utils.LoadPromptWithFallback(cfg.Get("SYSTEM_PROMPT_FILE"), profile.SystemPrompt)
	profile.Params = Params{
		Temperature: cfg.GetFloatWithDefault("MODEL_TEMPERATURE", profile.Params.Temperature),
		MaxLength:   cfg.GetIntWithDefault("MODEL_MAX_LENGTH", profile.Params.MaxLength),
		TopP:        cfg.GetFloatWithDefault("MODEL_TOP_P", profile.Params.TopP),
	}

	return profile, nil
}

// NewProvider builds the provider named by the profile
func NewProvider(profile *Profile, cfg *utils.Config) (Provider, error) {
	switch profile.Provider {
	case ProviderReplicate, "":
		return NewReplicateProvider(cfg.GetWithDefault("REPLICATE_BASE_URL", DefaultReplicateURL)), nil
	case ProviderOpenAI:
		return NewOpenAIProvider(cfg.Get("OPENAI_BASE_URL")), nil
	default:
		return nil, fmt.Errorf("unsupported provider %q", profile.Provider)
	}
}
