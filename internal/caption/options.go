package caption

import "captionfix/internal/config"

// OptionsFromConfig builds processor options from the [rules] config section.
func OptionsFromConfig(rules config.Rules) (Options, error) {
	policy, err := ParseTriggerPolicy(rules.MissingTrigger)
	if err != nil {
		return Options{}, err
	}
	opts := Options{MissingTrigger: policy}
	for _, r := range rules.Replacements {
		opts.Replacements = append(opts.Replacements, Replacement{From: r.From, To: r.To})
	}
	return opts, nil
}
