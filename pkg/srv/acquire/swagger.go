/*
 Licensed under the Apache License, Version 2.0 (the "License");
 you may not use this file except in compliance with the License.
 You may obtain a copy of the License at

     https://www.apache.org/licenses/LICENSE-2.0

 Unless required by applicable law or agreed to in writing, software
 distributed under the License is distributed on an "AS IS" BASIS,
 WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 See the License for the specific language governing permissions and
 limitations under the License.
*/

package acquire

import (
	_ "embed"
	"encoding/json"
	"net/http"

	"github.com/go-openapi/loads"
	"github.com/go-openapi/runtime/middleware"
)

const (
	SwaggerPath = "/swagger.json"
	DocsPath    = "docs"
)

//go:embed swagger.json
var swaggerSpec []byte

// LoadSwagger parses the embedded API description
func LoadSwagger() (*loads.Document, error) {
	return loads.Analyzed(json.RawMessage(swaggerSpec), "")
}

func swaggerHandler(doc *loads.Document) http.HandlerFunc {
	raw := doc.Raw()
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write(raw)
	}
}

// withDocs serves the Redoc page rendering the swagger spec
func withDocs(next http.Handler, title string) http.Handler {
	return middleware.Redoc(middleware.RedocOpts{
		BasePath: "/",
		Path:     DocsPath,
		SpecURL:  SwaggerPath,
		Title:    title,
	}, next)
}
