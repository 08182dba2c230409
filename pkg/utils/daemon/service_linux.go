package daemon

const unitPath = "/etc/systemd/system/devbridge.service"

const systemdUnit = `[Unit]
Description=devbridge device status daemon
After=local-fs.target

[Service]
ExecStart=/path/to/devbridge daemon
ExecReload=/bin/kill -HUP $MAINPID
Restart=on-failure

[Install]
WantedBy=multi-user.target
`

func hostService() (service, error) {
	return service{
		path:     unitPath,
		template: systemdUnit,
		start: [][]string{
			{"systemctl", "daemon-reload"},
			{"systemctl", "enable", "--now", "devbridge.service"},
		},
		stop: [][]string{
			{"systemctl", "disable", "--now", "devbridge.service"},
		},
	}, nil
}
