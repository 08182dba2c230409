package daemon

const plistPath = "/Library/LaunchDaemons/cc.chlc.devbridge.plist"

const launchDaemonPlist = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
	<key>Label</key>
	<string>cc.chlc.devbridge</string>
	<key>ProgramArguments</key>
	<array>
		<string>/path/to/devbridge</string>
		<string>daemon</string>
	</array>
	<key>RunAtLoad</key>
	<true/>
	<key>KeepAlive</key>
	<true/>
	<key>StandardOutPath</key>
	<string>/tmp/devbridge.log</string>
	<key>StandardErrorPath</key>
	<string>/tmp/devbridge.log</string>
</dict>
</plist>
`

func hostService() (service, error) {
	return service{
		path:     plistPath,
		template: launchDaemonPlist,
		start:    [][]string{{"/bin/launchctl", "load", plistPath}},
		stop:     [][]string{{"/bin/launchctl", "unload", plistPath}},
	}, nil
}
