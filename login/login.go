// Package login starts hotkeylistener when the user logs in.
package login

import (
	"errors"
	"fmt"
	"html"
	"sort"
	"strings"
)

const label = "com.hotkeylistener.agent"

var ErrUnsupported = errors.New("start on login is not supported on this platform")

// renderPlist builds a LaunchAgent that runs exe with args in the user's
// GUI session.
func renderPlist(exe string, args []string, env map[string]string) string {
	var prog strings.Builder
	fmt.Fprintf(&prog, "\t\t<string>%s</string>\n", html.EscapeString(exe))
	for _, a := range args {
		fmt.Fprintf(&prog, "\t\t<string>%s</string>\n", html.EscapeString(a))
	}

	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var vars strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&vars, "\t\t<key>%s</key>\n\t\t<string>%s</string>\n", html.EscapeString(k), html.EscapeString(env[k]))
	}

	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
	<key>Label</key>
	<string>%s</string>
	<key>ProgramArguments</key>
	<array>
%s	</array>
	<key>RunAtLoad</key>
	<true/>
	<key>LimitLoadToSessionType</key>
	<string>Aqua</string>
	<key>EnvironmentVariables</key>
	<dict>
%s	</dict>
</dict>
</plist>
`, label, prog.String(), vars.String())
}
