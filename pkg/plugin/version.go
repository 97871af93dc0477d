package plugin

// Version is the suite version reported by --version.
const Version = "1.2.0"
