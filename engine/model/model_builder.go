package model

// ModelBuilderOption is a functional option for configuring a Model via NewModel.
type ModelBuilderOption func(*model)

// WithName is an option builder that sets the name of the Model.
//
// Parameters:
//   - name: the model identifier
//
// Returns:
//   - ModelBuilderOption: a function that applies the name option to a model
func WithName(name string) ModelBuilderOption {
	return func(m *model) {
		m.name = name
	}
}

// WithSource is an option builder that records the path the Model was loaded from.
//
// Parameters:
//   - path: the source path
//
// Returns:
//   - ModelBuilderOption: a function that applies the source option to a model
func WithSource(path string) ModelBuilderOption {
	return func(m *model) {
		m.source = path
	}
}
