package common

// PrincipalMetadataKey is the gRPC metadata key carrying a serialized
// principal. The -bin suffix makes gRPC transmit the value base64-encoded.
const PrincipalMetadataKey = "principal-bin"
