package servers_test

import (
	"regexp"
	"testing"

	"parcel-dispatch/api"
	"parcel-dispatch/internal/generated/servers"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pathParam = regexp.MustCompile(`\{([^}]+)\}`)

func TestRegisterHandlers_MatchesDocument(t *testing.T) {
	doc, err := openapi3.NewLoader().LoadFromData(api.OpenAPI)
	require.NoError(t, err)

	e := echo.New()
	servers.RegisterHandlers(e, nil)

	registered := make(map[string]bool)
	for _, r := range e.Routes() {
		registered[r.Method+" "+r.Path] = true
	}

	documented := 0
	for path, item := range doc.Paths.Map() {
		for method := range item.Operations() {
			documented++
			route := method + " " + pathParam.ReplaceAllString(path, ":$1")
			assert.True(t, registered[route], "no handler for %s", route)
		}
	}
	assert.Len(t, e.Routes(), documented)
}
