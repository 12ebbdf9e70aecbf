package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/hoops-finance/hoops/service/apiserver"
)

// DoRequest calls the json rpc method of a running server
func DoRequest(hostURL string, Method string, Params []interface{}) (interface{}, error) {
	req := &apiserver.JRPCRequest{
		JSONRPC: "2.0",
		ID:      uuid.New().String(),
		Method:  Method,
		Params:  Params,
	}
	bs, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	r, err := http.Post(strings.TrimRight(hostURL, "/")+"/api/endpoints/http", "application/json", bytes.NewReader(bs))
	if err != nil {
		return nil, err
	}
	defer r.Body.Close()

	if r.StatusCode != http.StatusOK {
		return nil, errors.Errorf("%v returns %v", Method, r.Status)
	}
	var res apiserver.JRPCResponse
	if err := json.NewDecoder(r.Body).Decode(&res); err != nil {
		return nil, err
	}
	if res.Error != "" {
		return nil, errors.New(fmt.Sprint(res.Error))
	}
	return res.Result, nil
}
