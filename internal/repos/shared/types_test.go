package shared_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/treesync/internal/repos/shared"
)

func TestNewRepositoryRoot(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name                 string
		input                string
		expectedPath         string
		expectedMetadataPath string
		expectedDepth        int
		expectError          bool
	}{
		{name: "top_level", input: ".git", expectedPath: ".", expectedMetadataPath: ".git", expectedDepth: 0},
		{name: "dot_prefixed_top_level", input: "./.git", expectedPath: ".", expectedMetadataPath: ".git", expectedDepth: 0},
		{name: "nested", input: "./llvm/tools/clang/.git", expectedPath: "llvm/tools/clang", expectedMetadataPath: "llvm/tools/clang/.git", expectedDepth: 3},
		{name: "strips_whitespace", input: "  gcc/.git ", expectedPath: "gcc", expectedMetadataPath: "gcc/.git", expectedDepth: 1},
		{name: "rejects_empty", input: "", expectError: true},
		{name: "rejects_newline", input: "gcc/.git\nother/.git", expectError: true},
		{name: "rejects_non_metadata_entry", input: "gcc/.gitignore", expectError: true},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			root, err := shared.NewRepositoryRoot(testCase.input)
			if testCase.expectError {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, testCase.expectedPath, root.Path())
			require.Equal(t, testCase.expectedMetadataPath, root.MetadataPath())
			require.Equal(t, testCase.expectedDepth, root.Depth())
			require.Equal(t, testCase.expectedPath, root.String())
		})
	}
}
