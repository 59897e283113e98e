// Package cli implements authctl, the administrative command-line client.
//
// Provisioning commands (migrate, user, grant, revoke) talk to the database
// directly. The login and check commands run against a local provider built
// from the same configuration, or against a running authd when --server is
// given. Login prints the principal as base64 so it can be handed to check.
//
// Commands are built by NewRootCmd from an Env, which tests replace with
// in-memory backends.
package cli
