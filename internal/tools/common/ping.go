package common

import "context"

// PingTool answers without credentials or network access.
func PingTool() Tool {
	return Tool{
		Name:        "ping",
		Description: "Check that the server is alive. Needs no Google credentials.",
		ReadOnly:    true,
		Handler: func(context.Context, Args, any) (any, error) {
			return map[string]string{"status": "ok", "message": "PONG"}, nil
		},
	}
}
