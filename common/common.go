package common

// Version is set at build time via -ldflags.
var Version = "dev"

// PackageName tags logs and metrics emitted by this service.
const PackageName = "node-rpc-gateway"
