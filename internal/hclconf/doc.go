// Package hclconf loads startup configuration from HCL files and
// translates it into the format-agnostic config model.
//
// A startup file looks like:
//
//	abort_on_failure = true
//	message_codecs   = ["json", "msgpack"]
//
//	verticle "healthcheck" {
//	  instances = 1
//	  config {
//	    port = 8091
//	  }
//	}
//
//	verticle "logsink" {
//	  depends_on = ["healthcheck"]
//	  config {
//	    address = "audit"
//	  }
//	}
package hclconf
