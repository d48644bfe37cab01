package modules

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"nekocmd/pkg/chat"
	"nekocmd/pkg/commands"
	"nekocmd/pkg/version"
)

var processStartTime = time.Now()

// NewStatus creates the status module.
func NewStatus() (*commands.Module, error) {
	return chat.NewModule("status", func(b *chat.Builder) {
		b.Command("status", func(c *chat.CommandBuilder) {
			c.Description("Show bot status")
			commands.Invoke0(c, func(ctx context.Context, e *chat.Event) error {
				return e.Respond(ctx, statusText(e))
			})
		})
		b.Command("ping", func(c *chat.CommandBuilder) {
			c.Description("Check that the bot is responding")
			commands.Invoke0(c, func(ctx context.Context, e *chat.Event) error {
				return e.Respond(ctx, "pong")
			})
		})
	})
}

func statusText(e *chat.Event) string {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	return fmt.Sprintf(`Status: online
Channel: %s
Version: %s
OS: %s/%s
Go: %s
Uptime: %s
Memory: %.2f MB
Modules: %d
Commands: %d`,
		e.Message.Platform,
		version.GetVersion(),
		runtime.GOOS,
		runtime.GOARCH,
		runtime.Version(),
		time.Since(processStartTime).Round(time.Second),
		float64(mem.Alloc)/1024.0/1024.0,
		len(e.Modules),
		len(canonicalChat(e.Commands)),
	)
}
