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

package command

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/imroc/req"

	"jinr.ru/greenlab/go-mcc128/pkg/config"
	"jinr.ru/greenlab/go-mcc128/pkg/scan"
	"jinr.ru/greenlab/go-mcc128/pkg/srv/acquire"
)

type ApiClient struct {
	*config.Config
	ApiPrefix string
}

func NewApiClient(cfg *config.Config) *ApiClient {
	return &ApiClient{
		Config:    cfg,
		ApiPrefix: fmt.Sprintf("http://%s:%d/api", cfg.Address, cfg.ApiPort),
	}
}

func (c *ApiClient) url(path string) string {
	return fmt.Sprintf("%s/%s", c.ApiPrefix, path)
}

// checkStatus turns a non 200 response into an error carrying the server message
func checkStatus(r *req.Resp) error {
	resp := r.Response()
	if resp.StatusCode == http.StatusOK {
		return nil
	}
	msg := strings.TrimSpace(r.String())
	if msg == "" {
		return errors.New(resp.Status)
	}
	return fmt.Errorf("%s: %s", resp.Status, msg)
}

// Scan sends request to run one scan with the given settings
func (c *ApiClient) Scan(settings *config.ScanSettings) (*acquire.ScanResult, error) {
	r, err := req.Post(c.url("scan"), req.BodyJSON(settings))
	if err != nil {
		return nil, err
	}
	if err = checkStatus(r); err != nil {
		return nil, err
	}
	result := &acquire.ScanResult{}
	if err = r.ToJSON(result); err != nil {
		return nil, err
	}
	return result, nil
}

// Stop sends request to stop the running scan
func (c *ApiClient) Stop() error {
	r, err := req.Post(c.url("stop"))
	if err != nil {
		return err
	}
	return checkStatus(r)
}

// Dataset sends request to get the last dataset
func (c *ApiClient) Dataset() (*scan.Dataset, error) {
	r, err := req.Get(c.url("dataset"))
	if err != nil {
		return nil, err
	}
	if err = checkStatus(r); err != nil {
		return nil, err
	}
	ds := &scan.Dataset{}
	if err = r.ToJSON(ds); err != nil {
		return nil, err
	}
	return ds, nil
}

// State sends request to get applied settings and counters of the board
func (c *ApiClient) State() (*acquire.BoardState, error) {
	r, err := req.Get(c.url("state"))
	if err != nil {
		return nil, err
	}
	if err = checkStatus(r); err != nil {
		return nil, err
	}
	bs := &acquire.BoardState{}
	if err = r.ToJSON(bs); err != nil {
		return nil, err
	}
	return bs, nil
}

// SetRange sends request to change the input range
func (c *ApiClient) SetRange(volts int) error {
	r, err := req.Post(c.url("range"), req.BodyJSON(&acquire.RangeSetup{Range: volts}))
	if err != nil {
		return err
	}
	return checkStatus(r)
}

// SetMode sends request to change the input mode
func (c *ApiClient) SetMode(mode string) error {
	r, err := req.Post(c.url("mode"), req.BodyJSON(&acquire.ModeSetup{Mode: mode}))
	if err != nil {
		return err
	}
	return checkStatus(r)
}

// SetTrigger sends request to change the trigger mode
func (c *ApiClient) SetTrigger(mode string) error {
	r, err := req.Post(c.url("trigger"), req.BodyJSON(&acquire.ModeSetup{Mode: mode}))
	if err != nil {
		return err
	}
	return checkStatus(r)
}

// Persist sends request to start writing datasets to a file
func (c *ApiClient) Persist(dirPath, filePrefix string) error {
	persist := &acquire.Persist{
		Dir:        dirPath,
		FilePrefix: filePrefix,
	}
	r, err := req.Post(c.url("persist"), req.BodyJSON(persist))
	if err != nil {
		return err
	}
	return checkStatus(r)
}

// Flush sends request to close the data file
func (c *ApiClient) Flush() error {
	r, err := req.Get(c.url("flush"))
	if err != nil {
		return err
	}
	return checkStatus(r)
}
