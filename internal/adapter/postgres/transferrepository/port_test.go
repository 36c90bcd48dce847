package transferrepository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQualifiedTable(t *testing.T) {
	assert.Equal(t, `"transfers"`, qualifiedTable(""))
	assert.Equal(t, `"public"."transfers"`, qualifiedTable("public"))
	assert.Equal(t, `"odd""schema"."transfers"`, qualifiedTable(`odd"schema`))
}
