package config

// ExampleConfig is printed verbatim by the `-C` CLI flag. It is itself
// a valid metasys configuration: parsing it back produces no errors.
const ExampleConfig = `# Example metasys configuration.
#
# Directives are case-insensitive and line-oriented; '#' starts a
# whole-line comment. Unknown directives are ignored.

# Ungrouped children start first, in the order declared here.
Process web /usr/bin/web-server --port 8080
Process worker /usr/bin/job-worker

# Grouped children start after all ungrouped children, groups in
# name-sorted order.
ProcessCache redis /usr/bin/redis-server
ProcessCache memcached /usr/bin/memcached

# Seconds between staged launches.
StartDelay 10

# Seconds to wait before restarting a child that has exited.
RestartDelay 30

# Seconds between the polite and forceful termination signals.
TermWait 30

Description example metasys instance

# Where to send status reports and error notifications. Leave blank
# to disable notifications entirely.
Email ops@example.com
MTA localhost

# Periodic email status report: None, Hourly, or Daily.
SysReport Daily

# HTML status report, rewritten every <interval> seconds (default 60).
HTMLReport /var/log/metasys/status.html:60

# Directory for metasys.log, metasys.pid, metasys.term, and per-child
# log files. Only honored on the very first startup.
LogDir /var/log/metasys
`
