// Package security implements the gRPC transport for the security service.
//
// Messages are plain Go structs carried by a JSON codec registered under the
// "json" content subtype, so the API needs no generated code. The package
// provides the service descriptor, a server adapting the business service and
// a thin client.
package security
