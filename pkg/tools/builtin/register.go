package builtin

import "stack_scout/pkg/tools"

// RegisterAll registers the search and write tools with the given registry.
func RegisterAll(registry *tools.Registry, composer Composer, gate WriteGate) error {
	all := []tools.Tool{
		&SearchByErrorTool{composer: composer},
		&SearchByTagsTool{composer: composer},
		&AnalyzeStackTraceTool{composer: composer},
		&PostQuestionTool{gate: gate},
		&PostSolutionTool{gate: gate},
		&ThumbsUpTool{gate: gate},
		&CommentSolutionTool{gate: gate},
	}
	for _, tool := range all {
		if err := registry.Register(tool); err != nil {
			return err
		}
	}
	return nil
}

// NewRegistryWithBuiltins creates a registry with every tool registered.
func NewRegistryWithBuiltins(composer Composer, gate WriteGate) (*tools.Registry, error) {
	registry := tools.NewRegistry()
	if err := RegisterAll(registry, composer, gate); err != nil {
		return nil, err
	}
	return registry, nil
}
