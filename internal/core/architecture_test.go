package core

import (
	"testing"

	"diocese/testutil"
)

func TestEngineLayering(t *testing.T) {
	testutil.AssertNoDirectImports(t, ".", testutil.BlobDriverImportForbidden, "profile images go through internal/blob")
	testutil.AssertNoDirectImports(t, ".", testutil.CLIImportForbidden, "the engine never depends on commands")
}
