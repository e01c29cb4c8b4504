// Package assets provides the stylesheets and theme presets used when
// assembling preview documents.
//
// # Loader Architecture
//
//	AssetLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - go:embed styles and themes shipped with the binary
//	    ├── FilesystemLoader  - a custom directory on disk
//	    └── AssetResolver     - custom first, embedded as fallback
//
// AssetResolver is what the converter uses. A custom directory may override
// a single style or theme while every other asset keeps its built-in value.
//
// # Directory Structure
//
//	{basePath}/
//	├── styles/
//	│   └── {name}.css     # extra stylesheet appended to the document
//	└── themes/
//	    └── {name}.yaml    # theme color tokens
//
// # Security
//
// Asset names are validated to prevent path traversal attacks.
// FilesystemLoader resolves symlinks and verifies paths stay within basePath.
package assets
