/*
   FluxDisk - flux level floppy disk decoder
   Copyright (c) 2022, Alexander Vollschwitz

   This file is part of FluxDisk.

   FluxDisk is free software: you can redistribute it and/or modify
   it under the terms of the GNU General Public License as published by
   the Free Software Foundation, either version 3 of the License, or
   (at your option) any later version.

   FluxDisk is distributed in the hope that it will be useful,
   but WITHOUT ANY WARRANTY; without even the implied warranty of
   MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
   GNU General Public License for more details.

   You should have received a copy of the GNU General Public License
   along with FluxDisk. If not, see <http://www.gnu.org/licenses/>.
*/

package control

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/xelalexv/fluxdisk/pkg/config"
	"github.com/xelalexv/fluxdisk/pkg/repo"
)

// upper limit for uploaded captures
const maxUpload = 128 * 1048576

//
type APIServer interface {
	Serve() error
	Stop() error
}

/*
	NewAPIServer creates an API server listening on address. Uploaded captures
	are converted using the disk formats in formats. If reports is not empty,
	the report of each conversion is stored there as a yaml file. index may be
	nil, in which case search is not available.
*/
func NewAPIServer(address string, formats *config.Formats, index *repo.Index,
	reports string) APIServer {
	return newAPI(address, formats, index, reports)
}

//
func newAPI(address string, formats *config.Formats, index *repo.Index,
	reports string) *api {
	return &api{
		address: address,
		formats: formats,
		index:   index,
		reports: reports,
		lock:    make(chan bool, 1),
	}
}

//
type api struct {
	address string
	formats *config.Formats
	index   *repo.Index
	reports string
	server  *http.Server
	// single conversion slot
	lock chan bool
	//
	mutex   sync.Mutex
	current string
}

//
func (a *api) Serve() error {

	a.server = &http.Server{
		Addr:         a.address,
		Handler:      a.router(),
		ReadTimeout:  5 * time.Minute,
		WriteTimeout: 5 * time.Minute,
	}

	log.WithField("address", a.address).Info("API server starting")

	if err := a.server.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}

	log.Info("API server stopped")
	return nil
}

//
func (a *api) Stop() error {
	if a.server == nil {
		return nil
	}
	log.Info("API server stopping")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return a.server.Shutdown(ctx)
}

//
func (a *api) router() *mux.Router {

	router := mux.NewRouter().StrictSlash(true)

	addRoute(router, "version", "GET", "/version", a.version)
	addRoute(router, "status", "GET", "/status", a.status)
	addRoute(router, "formats", "GET", "/formats", a.listFormats)
	addRoute(router, "convert", "PUT", "/convert", a.convert)
	addRoute(router, "convert", "POST", "/convert", a.convert)
	addRoute(router, "search", "GET", "/search", a.search)

	return router
}

//
func addRoute(r *mux.Router, name, method, pattern string, handler http.HandlerFunc) {
	r.Methods(method).Path(pattern).Name(name).Handler(logRequest(handler, name))
}

//
func logRequest(h http.Handler, name string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		h.ServeHTTP(w, r)
		log.WithFields(log.Fields{
			"method":   r.Method,
			"uri":      r.RequestURI,
			"route":    name,
			"duration": time.Since(start),
		}).Debug("API request")
	})
}

// acquire takes the conversion slot for name, if it is free
func (a *api) acquire(name string) bool {
	select {
	case a.lock <- true:
		a.mutex.Lock()
		a.current = name
		a.mutex.Unlock()
		log.WithField("name", name).Trace("conversion slot taken")
		return true
	default:
		log.WithField("name", name).Debug("conversion slot busy")
		return false
	}
}

//
func (a *api) release() {
	a.mutex.Lock()
	a.current = ""
	a.mutex.Unlock()
	select {
	case <-a.lock:
		log.Trace("conversion slot released")
	default:
		log.Debug("conversion slot was already released")
	}
}

// converting returns the name of the capture currently being converted, or
// an empty string if there is none
func (a *api) converting() string {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	return a.current
}

//
func getArg(req *http.Request, arg string) string {
	return req.URL.Query().Get(arg)
}

//
func getIntArg(req *http.Request, arg string, def int) (int, error) {
	a := getArg(req, arg)
	if a == "" {
		return def, nil
	}
	ret, err := strconv.Atoi(a)
	if err != nil {
		return def, fmt.Errorf("invalid value for %s: %s", arg, a)
	}
	return ret, nil
}

//
func isFlagSet(req *http.Request, arg string) bool {
	if v, ok := req.URL.Query()[arg]; ok {
		return len(v) == 0 || v[0] == "" || strings.ToLower(v[0]) == "true"
	}
	return false
}

//
func wantsJSON(req *http.Request) bool {
	return strings.Contains(req.Header.Get("Accept"), "application/json")
}

//
func sendReply(body []byte, statusCode int, w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/plain; charset=UTF-8")
	w.WriteHeader(statusCode)
	if _, err := w.Write(body); err != nil {
		log.Errorf("problem sending reply: %v", err)
	}
}

//
func sendJSONReply(obj interface{}, statusCode int, w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(obj); err != nil {
		log.Errorf("problem sending JSON reply: %v", err)
	}
}

// handleError sends an error reply if err is not nil, and returns whether
// it did so
func handleError(e error, statusCode int, w http.ResponseWriter) bool {
	if e == nil {
		return false
	}
	msg := fmt.Sprintf("%v", e)
	log.WithField("status", statusCode).Debugf("API error: %s", msg)
	sendReply([]byte(msg), statusCode, w)
	return true
}
