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

package srv

import (
	"encoding/json"
	"errors"
	"net/http"

	"jinr.ru/greenlab/go-mcc128/pkg/device"
	"jinr.ru/greenlab/go-mcc128/pkg/log"
	"jinr.ru/greenlab/go-mcc128/pkg/scan"
)

// StatusFor maps engine errors to HTTP status codes
func StatusFor(err error) int {
	switch {
	case errors.As(err, &device.ErrConfiguration{}), errors.As(err, &device.ErrRate{}):
		return http.StatusBadRequest
	case errors.As(err, &scan.ErrBusy{}):
		return http.StatusConflict
	case errors.As(err, &device.ErrHardware{}):
		return http.StatusBadGateway
	case errors.As(err, &ErrNotFound{}):
		return http.StatusNotFound
	case errors.As(err, &ErrUnknownOperation{}):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// Error writes err with the matching status code
func Error(w http.ResponseWriter, err error) {
	http.Error(w, err.Error(), StatusFor(err))
}

// WriteJSON ...
func WriteJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Error while encoding response: %s", err)
	}
}
