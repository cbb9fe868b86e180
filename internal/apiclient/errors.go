package apiclient

import "errors"

var errNoToken = errors.New("login response carried no token")
