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

package dump

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"

	"jinr.ru/greenlab/go-mcc128/pkg/layers"
	"jinr.ru/greenlab/go-mcc128/pkg/srv/acquire"
)

const (
	FullOptionName = "full"
)

// NewCommand creates a command decoding a data file written by the acquisition server
func NewCommand() *cobra.Command {
	var full bool
	cmd := &cobra.Command{
		Use:   "dump <file>",
		Short: "Print datasets stored in a data file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			return dump(cmd.OutOrStdout(), f, full)
		},
	}
	cmd.Flags().BoolVar(&full, FullOptionName, false, "Print samples, not only headers")
	return cmd
}

func dump(out io.Writer, r io.Reader, full bool) error {
	count := 0
	for {
		d, err := layers.ReadDataset(r)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("frame %d: %w", count, err)
		}
		count++
		ds := acquire.FromLayer(d)
		if full {
			data, err := yaml.Marshal(ds)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "---\n%s", data)
			continue
		}
		fmt.Fprintf(out, "#%d %s mask=0x%02x options=%s channels=%v points=%d step=%gs\n",
			ds.Seq, ds.Timestamp.Format("2006-01-02 15:04:05.000"), ds.Mask, ds.Options,
			ds.Labels, ds.Axis.Count, ds.Axis.Step)
	}
	fmt.Fprintf(out, "%d datasets\n", count)
	return nil
}
