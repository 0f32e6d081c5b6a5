package openapi

import "github.com/cbroglie/mustache"

const swaggerUITemplate = `<!DOCTYPE html>
<html>
<head>
<link type="text/css" rel="stylesheet" href="{{cdn}}/swagger-ui.css">
<title>{{title}} - Swagger UI</title>
</head>
<body>
<div id="swagger-ui">
</div>
<script src="{{cdn}}/swagger-ui-bundle.js"></script>
<script>
const ui = SwaggerUIBundle({
    url: '{{openapiURL}}',
    "dom_id": "#swagger-ui",
    "layout": "BaseLayout",
    "deepLinking": true,
    "showExtensions": true,
    "showCommonExtensions": true,
    presets: [
        SwaggerUIBundle.presets.apis,
        SwaggerUIBundle.SwaggerUIStandalonePreset
    ],
})
</script>
</body>
</html>
`

// SwaggerUICDN is where the Swagger UI assets are loaded from.
const SwaggerUICDN = "https://cdn.jsdelivr.net/npm/swagger-ui-dist@5"

// SwaggerUIHTML renders the interactive documentation page for the document
// served at openapiURL.
func SwaggerUIHTML(title, openapiURL string) (string, error) {
	return mustache.Render(swaggerUITemplate, map[string]string{
		"cdn":        SwaggerUICDN,
		"title":      title,
		"openapiURL": openapiURL,
	})
}
