// Package all imports all supported registry implementations.
//
// Import this package for its side effects to register every ecosystem:
//
//	import (
//		"github.com/git-pkgs/cratescope"
//		_ "github.com/git-pkgs/cratescope/all"
//	)
//
//	ecosystems := cratescope.SupportedEcosystems()
//	// ["cargo"]
package all

import (
	_ "github.com/git-pkgs/cratescope/internal/cargo"
)
