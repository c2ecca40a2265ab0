package finding

// Option is a Finding option function
type Option func(*Finding)

func WithColumn(col int) Option      { return func(f *Finding) { f.Column = col } }
func WithTagName(name string) Option { return func(f *Finding) { f.TagName = name } }
func WithSuggestion(s string) Option { return func(f *Finding) { f.Suggestion = s } }
func WithPrecise(r Range) Option     { return func(f *Finding) { f.SetPrecise(r) } }
