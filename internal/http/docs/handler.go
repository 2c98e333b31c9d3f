package docs

import (
	"fmt"
	"html"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/labstack/echo/v4"
)

const swaggerUIPage = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>%[1]s</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css">
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js" crossorigin></script>
  <script>
    window.onload = function () {
      window.ui = SwaggerUIBundle({ url: "%[2]s", dom_id: "#swagger-ui" });
    };
  </script>
</body>
</html>
`

// Register serves the UI at basePath and the raw document at
// basePath/openapi.json.
func Register(e *echo.Echo, basePath string, doc *openapi3.T) {
	specPath := basePath + "/openapi.json"

	page := fmt.Sprintf(swaggerUIPage, html.EscapeString(doc.Info.Title), html.EscapeString(specPath))

	e.GET(basePath, func(c echo.Context) error {
		return c.HTML(http.StatusOK, page)
	})
	e.GET(specPath, func(c echo.Context) error {
		return c.JSON(http.StatusOK, doc)
	})
}
