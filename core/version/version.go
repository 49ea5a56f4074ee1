package version

// Version is the current release of capnp-stubgen.
const Version = "0.3.0"
