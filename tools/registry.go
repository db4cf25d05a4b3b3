package tools

// Catalog returns the declarations of every tool the dispatcher can run, in a
// stable order.
func Catalog() []Declaration {
	return []Declaration{
		GetFilesInfoDeclaration,
		GetFileContentDeclaration,
		RunPythonFileDeclaration,
		WriteFileDeclaration,
	}
}
