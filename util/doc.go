/*
Package util holds small, dependency-light helpers used across the runtime
core: local-id token minting and recognition, "${key}" interpolation, a
comma-separated duration parser, a debug call-site locator, and a bitset.

*/
package util

/*
Some guidelines:
  - All packages may depend on this one.
    Consequently, be careful about what this depends on:
    - do not import net/http or anything transport-shaped. Transport helpers
      live in the transport package.
*/
