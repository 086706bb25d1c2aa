// Package control implements the control service: a lightweight HTTP
// service, bound to 127.0.0.1 only, mapping create/list/status/verify/
// delete/shutdown requests onto a Manager (implemented by
// pkg/manager.ServerManager).
package control
