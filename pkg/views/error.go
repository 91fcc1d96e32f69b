package views

import (
	"errors"

	"github.com/sgaunet/s3tui/pkg/s3svc"
)

// ErrorPage renders an error shown in place of a view body, with a hint on
// what the user can do about it.
func (v *Views) ErrorPage(err error) string {
	if err == nil {
		return ""
	}
	out := v.theme.Error.Render("Error: " + err.Error())
	switch {
	case errors.Is(err, s3svc.ErrNotFound):
		out += "\n" + v.theme.Dim.Render("the object no longer exists, refresh the listing")
	case errors.Is(err, s3svc.ErrGatewayUnavailable):
		out += "\n" + v.theme.Dim.Render("check the endpoint and the credentials, then refresh")
	}
	return out
}
