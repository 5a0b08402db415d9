//go:build tools

package tools

// Development tools are pinned through the tool directive in go.mod:
//
//	go tool moq    regenerates the *_mock_test.go files (see //go:generate lines)
//	go tool goose  creates new files under migrations/
