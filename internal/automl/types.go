package automl

// TranslationDatasetMetadata carries the language pair a dataset is built
// for.
type TranslationDatasetMetadata struct {
	SourceLanguageCode string `json:"sourceLanguageCode"`
	TargetLanguageCode string `json:"targetLanguageCode"`
}

// Dataset is the service's dataset descriptor. Name is the full resource
// name (projects/.../locations/.../datasets/...).
type Dataset struct {
	Name                       string                      `json:"name"`
	DisplayName                string                      `json:"displayName"`
	ExampleCount               int                         `json:"exampleCount,omitempty"`
	TranslationDatasetMetadata *TranslationDatasetMetadata `json:"translationDatasetMetadata,omitempty"`
}

// Operation is a long-running operation handle returned by import and
// training calls. The caller polls or just records the name; nothing in
// this tool waits for completion.
type Operation struct {
	Name string `json:"name"`
	Done bool   `json:"done,omitempty"`
}
