// Package tools implements the vault assistant's tool set: the fixed
// enumeration of tool names, their provider-facing declarations, and the
// dispatcher that maps a normalized tool call onto a handler.
//
// Handlers never return errors. Underlying I/O and network failures are
// converted to descriptive strings and returned as ordinary tool results,
// so the model sees what went wrong and can react instead of the loop
// crashing.
package tools

// Name identifies one tool in the closed set. Dispatch switches over the
// full enumeration; adding a tool means adding a constant, a declaration
// and a case, all checked at compile time.
type Name string

const (
	ReadFile     Name = "read_file"
	WriteFile    Name = "write_file"
	SearchVault  Name = "search_vault"
	ReadFolder   Name = "read_folder"
	CreateFolder Name = "create_folder"
	FetchURL     Name = "fetch_url"
	EditFile     Name = "edit_file"
	Research     Name = "research"
)

// All returns the tool names in declaration order.
func All() []Name {
	return []Name{
		ReadFile,
		WriteFile,
		SearchVault,
		ReadFolder,
		CreateFolder,
		FetchURL,
		EditFile,
		Research,
	}
}

// ParseName maps a raw provider-supplied tool name onto the closed set.
func ParseName(s string) (Name, bool) {
	switch Name(s) {
	case ReadFile, WriteFile, SearchVault, ReadFolder, CreateFolder, FetchURL, EditFile, Research:
		return Name(s), true
	}
	return "", false
}
