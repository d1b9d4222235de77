package tools

import "google.golang.org/genai"

// Declarations returns the fixed tool declarations offered to the provider.
// Every parameter is a required string; the client package reshapes the
// schemas into whichever wire format the configured protocol expects.
func Declarations() []*genai.FunctionDeclaration {
	return []*genai.FunctionDeclaration{
		{
			Name:        string(ReadFile),
			Description: "Read the contents of a file in the vault.",
			Parameters: stringParams(map[string]string{
				"path": "Vault-relative path of the file to read",
			}, "path"),
		},
		{
			Name:        string(WriteFile),
			Description: "Overwrite a file in the vault with new content. The change is held in memory until the user saves.",
			Parameters: stringParams(map[string]string{
				"path":    "Vault-relative path of the file to write",
				"content": "Full new content of the file",
			}, "path", "content"),
		},
		{
			Name:        string(SearchVault),
			Description: "Search for text across vault file paths and document contents. Returns up to 10 matches with short previews.",
			Parameters: stringParams(map[string]string{
				"query": "Text to search for, matched case-insensitively",
			}, "query"),
		},
		{
			Name:        string(ReadFolder),
			Description: "List the files and subfolders inside a vault folder.",
			Parameters: stringParams(map[string]string{
				"path": "Vault-relative path of the folder to list",
			}, "path"),
		},
		{
			Name:        string(CreateFolder),
			Description: "Create a folder in the vault, including missing parent folders.",
			Parameters: stringParams(map[string]string{
				"path": "Vault-relative path of the folder to create",
			}, "path"),
		},
		{
			Name:        string(FetchURL),
			Description: "Fetch a web page and return its readable text, truncated when long.",
			Parameters: stringParams(map[string]string{
				"url": "The http or https URL to fetch",
			}, "url"),
		},
		{
			Name:        string(EditFile),
			Description: "Propose an edit to a vault file. The user reviews a diff and applies or rejects it; nothing changes until they approve.",
			Parameters: stringParams(map[string]string{
				"path":    "Vault-relative path of the file to edit",
				"content": "Proposed full content of the file",
			}, "path", "content"),
		},
		{
			Name:        string(Research),
			Description: "Run a web search and read the top results. Returns combined text from up to 5 sources.",
			Parameters: stringParams(map[string]string{
				"query": "The search query",
			}, "query"),
		},
	}
}

func stringParams(fields map[string]string, required ...string) *genai.Schema {
	props := make(map[string]*genai.Schema, len(fields))
	for name, desc := range fields {
		props[name] = &genai.Schema{Type: genai.TypeString, Description: desc}
	}
	return &genai.Schema{
		Type:       genai.TypeObject,
		Properties: props,
		Required:   required,
	}
}
