/*
Package netmaker provides an HTTP client for the Netmaker API.

The package covers the two concerns the reconciler needs from the remote
side: turning supplied credentials into a usable bearer token, and
executing single authenticated API operations with consistent error
mapping. Each invocation builds a fresh Client from an immutable Config;
no token, connection, or other state survives the invocation.

# Usage

	client, err := netmaker.NewClient(netmaker.Config{
		BaseURL:       "https://api.netmaker.example.com",
		MasterKey:     masterKey,
		ValidateCerts: true,
	})
	if err != nil {
		return err
	}
	if err := client.Authenticate(ctx); err != nil {
		return err
	}
	network, err := client.GetNetwork(ctx, "iot-network")

# Authentication

A master key is used directly as the bearer credential. Without one, the
client performs a login exchange (POST /api/users/adm/authenticate) with
username and password and uses the returned short-lived token. Incomplete
credentials fail validation before any network I/O.

# Error Mapping

Every operation maps its outcome onto a small taxonomy:

  - ConnectivityError: transport failure (timeout, DNS, TLS handshake)
  - ErrNotFound: fetch-by-name found nothing; a valid outcome, not a failure
  - APIError: any other non-2xx, carrying the HTTP status and server message
  - AuthError: rejected or incomplete credentials

Older Netmaker servers report absence as 500 with a "no result found"
message body; the client folds that shape into ErrNotFound.

# TLS

Certificate validation is on by default. Disabling it (Config.ValidateCerts
= false) keeps TLS on the wire but skips chain verification. This is a
documented insecure mode for lab setups with self-signed certificates.
*/
package netmaker
