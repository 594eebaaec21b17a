/*
Package config loads the havoc harness configuration from YAML.

The configuration is parsed once at process start and handed to the
components that need it as explicit values; nothing in the harness reads
configuration through package-level state. The rollback section maps to
types.RollbackConfig, the injected object consumed by the journal engine
and the scenario runner.

Example:

	logLevel: info
	dataDir: /var/lib/havoc
	metricsAddr: 127.0.0.1:9090
	rollback:
	  auto: true
	  versionsDirectory: /var/lib/havoc/rollback-versions
	scenarios:
	  - type: namespace-outage
	    parameters:
	      namespace: payments
*/
package config
