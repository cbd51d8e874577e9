// Package v1 contains the configuration file format of the datapackage CLI.
//
// The file format is YAML (or JSON) and carries its type so that future versions can be told apart:
//
//	type: datapackage.config.ocm.software/v1
//	http:
//	  timeout: 30s
//	  userAgent: my-pipeline/1.0
//
// The unversioned type «datapackage.config.ocm.software» is accepted as an alias of v1.
package v1
