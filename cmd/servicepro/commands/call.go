package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"servicepro/internal/domain"
)

// call: send an arbitrary request through the dispatcher.
func callCmd() *cobra.Command {
	var (
		method      string
		data        []string
		files       []string
		contentType string
		opts        domain.RequestOptions
	)
	cmd := &cobra.Command{
		Use:   "call <endpoint>",
		Short: "Send a request through the dispatcher and print the outcome",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload := make(map[string]any, len(data)+len(files))
			for _, d := range data {
				k, v, err := splitPair(d)
				if err != nil {
					return err
				}
				payload[k] = v
			}
			for _, f := range files {
				k, path, err := splitPair(f)
				if err != nil {
					return err
				}
				file, err := readAttachment(path)
				if err != nil {
					return err
				}
				payload[k] = file
			}
			opts.IsFileUpload = opts.IsFileUpload || len(files) > 0
			opts.ContentType = contentType

			out, err := appCtx.API.Send(cmd.Context(), domain.Request{
				Payload:  payload,
				Endpoint: args[0],
				Method:   strings.ToUpper(method),
				Options:  opts,
			})
			if err != nil {
				return err
			}
			printOutcome(cmd, out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&method, "method", "X", "GET", "HTTP method")
	cmd.Flags().StringArrayVarP(&data, "data", "d", nil, "payload field key=value (repeatable)")
	cmd.Flags().StringArrayVarP(&files, "file", "F", nil, "file part field=path (repeatable, implies multipart)")
	cmd.Flags().StringVar(&contentType, "content-type", "", "override the JSON content type")
	cmd.Flags().BoolVar(&opts.ShowLoader, "loader", true, "mark the app busy while in flight")
	cmd.Flags().BoolVar(&opts.ShowErrorMessage, "show-error", true, "surface failure messages")
	cmd.Flags().BoolVar(&opts.ShowSuccessMessage, "show-success", false, "surface success messages")
	cmd.Flags().BoolVar(&opts.IsFileUpload, "multipart", false, "send as multipart/form-data")
	return cmd
}

func printOutcome(cmd *cobra.Command, o domain.Outcome) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s (%d)\n", o.Kind, o.Status)
	if len(o.Payload) > 0 {
		fmt.Fprintln(out, string(o.Payload))
	}
}
