package style

import (
	"encoding/json"
	"fmt"

	"github.com/arthur-debert/dotsetup/pkg/category"
	"github.com/arthur-debert/dotsetup/pkg/errors"
)

type categoryJSON struct {
	Name        string   `json:"name"`
	Help        string   `json:"help,omitempty"`
	Dir         string   `json:"dir,omitempty"`
	Files       int      `json:"files"`
	Directories int      `json:"directories"`
	Install     []string `json:"install"`
}

type failureJSON struct {
	Category string `json:"category"`
	Op       string `json:"op"`
	Subject  string `json:"subject"`
	Code     string `json:"code"`
	Error    string `json:"error"`
}

type reportJSONDoc struct {
	Command   string        `json:"command"`
	Category  string        `json:"category"`
	Processed int           `json:"processed"`
	DryRun    bool          `json:"dry_run"`
	Failures  []failureJSON `json:"failures"`
}

type errorJSONDoc struct {
	Error   string                 `json:"error"`
	Code    string                 `json:"code"`
	Details map[string]interface{} `json:"details,omitempty"`
}

func categoriesJSON(cats []*category.Category) []categoryJSON {
	out := make([]categoryJSON, 0, len(cats))
	for _, c := range cats {
		names := c.ActionNames()
		if names == nil {
			names = []string{}
		}
		out = append(out, categoryJSON{
			Name:        c.Name(),
			Help:        c.Help(),
			Dir:         c.Dir(),
			Files:       len(c.Files()),
			Directories: len(c.Directories()),
			Install:     names,
		})
	}
	return out
}

func reportJSON(command string, rep category.Report, dryRun bool) reportJSONDoc {
	doc := reportJSONDoc{
		Command:   command,
		Category:  rep.Category,
		Processed: rep.Processed,
		DryRun:    dryRun,
		Failures:  []failureJSON{},
	}
	for _, f := range rep.Failures {
		doc.Failures = append(doc.Failures, failureJSON{
			Category: f.Category,
			Op:       f.Op,
			Subject:  f.Subject,
			Code:     string(errors.GetErrorCode(f.Err)),
			Error:    fmt.Sprint(f.Err),
		})
	}
	return doc
}

func errorJSON(err error) errorJSONDoc {
	return errorJSONDoc{
		Error:   err.Error(),
		Code:    string(errors.GetErrorCode(err)),
		Details: errors.GetErrorDetails(err),
	}
}

func encodeJSON(v interface{}) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf(`{"error": %q}`, err.Error())
	}
	return string(data)
}
