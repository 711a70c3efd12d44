// Copyright 2026 The eem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"html/template"
	"image/color"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	uuid "github.com/hashicorp/go-uuid"
	"github.com/pkg/errors"
	"go-hep.org/x/hep/hplot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/aqualab/eem"
	"github.com/aqualab/eem/caryeclipse"
)

const cookieName = "EEM_SRV"

type server struct {
	dir  string
	quit chan int

	mu      sync.RWMutex
	cookies map[string]*http.Cookie
	ids     map[string]map[string]struct{}
}

func newServer(dir string, mux *http.ServeMux) *server {
	app := &server{
		dir:     dir,
		quit:    make(chan int),
		cookies: make(map[string]*http.Cookie),
		ids:     make(map[string]map[string]struct{}),
	}
	go app.run()

	mux.Handle("/", app.wrap(app.rootHandle))
	mux.Handle("/decode", app.wrap(app.decodeHandle))
	mux.Handle("/fetch", app.wrap(app.fetchHandle))
	mux.Handle("/drop", app.wrap(app.dropHandle))
	return app
}

func (srv *server) run() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	srv.gc()
	for {
		select {
		case <-ticker.C:
			srv.gc()
		case <-srv.quit:
			return
		}
	}
}

func (srv *server) Shutdown() {
	close(srv.quit)
}

// gc drops expired sessions and their decoded results.
func (srv *server) gc() {
	srv.mu.Lock()
	defer srv.mu.Unlock()
	now := time.Now()
	for name, cookie := range srv.cookies {
		if now.After(cookie.Expires) {
			delete(srv.cookies, name)
			cookie.MaxAge = -1
			for id := range srv.ids[cookie.Value] {
				os.RemoveAll(filepath.Join(srv.dir, "id", id))
			}
			delete(srv.ids, cookie.Value)
		}
	}
}

func (srv *server) setCookie(w http.ResponseWriter, r *http.Request) error {
	srv.mu.Lock()
	defer srv.mu.Unlock()
	cookie, err := r.Cookie(cookieName)
	if err != nil && err != http.ErrNoCookie {
		return err
	}

	if cookie != nil {
		return nil
	}

	v, err := uuid.GenerateUUID()
	if err != nil {
		return errors.Wrapf(err, "could not generate UUID")
	}

	cookie = &http.Cookie{
		Name:    cookieName,
		Value:   v,
		Expires: time.Now().Add(24 * time.Hour),
	}
	srv.cookies[cookie.Value] = cookie
	srv.ids[cookie.Value] = make(map[string]struct{})
	http.SetCookie(w, cookie)
	return nil
}

func (srv *server) wrap(fn func(w http.ResponseWriter, r *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := srv.setCookie(w, r)
		if err != nil {
			log.Printf("error retrieving cookie: %v\n", err)
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		if err := fn(w, r); err != nil {
			log.Printf("error %q: %v\n", r.URL.Path, err.Error())
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}
}

func (srv *server) rootHandle(w http.ResponseWriter, r *http.Request) error {
	if r.Method != http.MethodGet {
		return fmt.Errorf("invalid request %q for /", r.Method)
	}

	t, err := template.New("upload").Parse(page)
	if err != nil {
		return err
	}

	return t.Execute(w, nil)
}

func (srv *server) decodeHandle(w http.ResponseWriter, r *http.Request) error {
	cookie, err := r.Cookie(cookieName)
	if err != nil {
		return errors.Wrap(err, "could not retrieve cookie")
	}

	err = r.ParseMultipartForm(500 << 20)
	if err != nil {
		return errors.Wrapf(err, "could not parse multipart form")
	}

	f, handler, err := r.FormFile("input-file")
	if err != nil {
		return errors.Wrapf(err, "could not access input file")
	}
	defer f.Close()
	fname := handler.Filename
	if strings.HasPrefix(fname, `C:\fakepath\`) {
		fname = fname[len(`C:\fakepath\`):]
	}
	log.Printf("fname: %v", fname)

	kind := r.PostFormValue("kind")
	log.Printf("kind: %s", kind)

	id := r.PostFormValue("id")
	if id == "" {
		return errors.New("invalid form ID")
	}

	res, err := decode(fname, kind, f)
	if err != nil {
		return errors.Wrapf(err, "could not decode %q", fname)
	}

	srv.mu.Lock()
	if srv.ids[cookie.Value] == nil {
		srv.ids[cookie.Value] = make(map[string]struct{})
	}
	srv.ids[cookie.Value][id] = struct{}{}
	srv.mu.Unlock()

	dir := filepath.Join(srv.dir, "id", id)
	err = res.save(dir)
	if err != nil {
		return errors.Wrapf(err, "could not save results for %q", fname)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	err = json.NewEncoder(w).Encode(struct {
		Image string `json:"data"`
		Kind  string `json:"kind"`
		Rows  int    `json:"rows"`
		Cols  int    `json:"cols"`
	}{
		Image: base64.StdEncoding.EncodeToString(res.img),
		Kind:  kind,
		Rows:  res.rows,
		Cols:  res.cols,
	})
	if err != nil {
		return errors.Wrapf(err, "could not encode to json")
	}

	return nil
}

func (srv *server) fetchHandle(w http.ResponseWriter, r *http.Request) error {
	cookie, err := r.Cookie(cookieName)
	if err != nil {
		return errors.Wrap(err, "could not retrieve cookie")
	}

	err = r.ParseForm()
	if err != nil {
		return errors.Wrapf(err, "could not parse form")
	}

	id := r.Form.Get("id")
	if id == "" {
		return errors.Errorf("invalid ID")
	}

	srv.mu.RLock()
	defer srv.mu.RUnlock()
	if _, ok := srv.ids[cookie.Value][id]; !ok {
		return errors.Errorf("unknown ID %q", id)
	}

	matches, err := filepath.Glob(filepath.Join(srv.dir, "id", id, "*.csv"))
	if err != nil {
		return errors.Wrapf(err, "could not find result file for %q", id)
	}
	if len(matches) != 1 {
		return errors.Errorf("invalid number of result file(s) for id %q: got=%d, want=1", id, len(matches))
	}

	fname := matches[0]
	f, err := os.Open(fname)
	if err != nil {
		return errors.Wrapf(err, "could not open result file for id %q", id)
	}
	defer f.Close()

	w.Header().Set("Content-Description", "File Transfer")
	w.Header().Set("Content-Disposition", "attachment; filename="+filepath.Base(fname))
	w.Header().Set("Content-Type", "text/csv")

	_, err = io.Copy(w, f)
	if err != nil {
		return errors.Wrapf(err, "could not copy result file for id %q", id)
	}

	return nil
}

func (srv *server) dropHandle(w http.ResponseWriter, r *http.Request) error {
	cookie, err := r.Cookie(cookieName)
	if err != nil {
		return errors.Wrap(err, "could not retrieve cookie")
	}

	err = r.ParseMultipartForm(500 << 20)
	if err != nil {
		return errors.Wrapf(err, "could not parse multipart form")
	}

	id := r.PostFormValue("id")
	if id == "" {
		return errors.Errorf("invalid ID")
	}

	srv.mu.Lock()
	defer srv.mu.Unlock()
	if _, ok := srv.ids[cookie.Value][id]; !ok {
		return errors.Errorf("unknown ID %q", id)
	}
	delete(srv.ids[cookie.Value], id)

	dir := filepath.Join(srv.dir, "id", id)
	err = os.RemoveAll(dir)
	if err != nil {
		return errors.Wrapf(err, "could not remove results directory %q", id)
	}

	return nil
}

// result is one decoded upload: the preview image and a writer for the
// tidy CSV table, queued for download under the session's ID.
type result struct {
	img   []byte
	rows  int
	cols  int
	write func(fname string) error
	base  string
}

func (res result) save(dir string) error {
	err := os.MkdirAll(dir, 0755)
	if err != nil {
		return errors.Wrapf(err, "could not create results directory %q", dir)
	}

	err = os.WriteFile(filepath.Join(dir, res.base+".png"), res.img, 0644)
	if err != nil {
		return errors.Wrapf(err, "could not save plot %q", res.base+".png")
	}

	err = res.write(filepath.Join(dir, res.base+".tidy.csv"))
	if err != nil {
		return errors.Wrapf(err, "could not save table %q", res.base+".tidy.csv")
	}

	return nil
}

func decode(fname, kind string, r io.Reader) (result, error) {
	var res result
	res.base = strings.TrimSuffix(fname, filepath.Ext(fname))

	switch kind {
	case "eem":
		m, err := caryeclipse.ParseEEM(r)
		if err != nil {
			return res, err
		}
		m.Name = fname
		res.img, err = renderMatrix(m.Sorted())
		if err != nil {
			return res, err
		}
		res.rows, res.cols = len(m.Emission), len(m.Excitation)
		res.write = func(oname string) error { return eem.WriteMatrix(oname, m) }
		return res, nil

	case "absorbance", "raman":
		var (
			s   eem.Spectrum
			err error
		)
		switch kind {
		case "absorbance":
			s, err = caryeclipse.ParseAbsorbance(r)
		default:
			s, err = caryeclipse.ParseWaterRaman(r)
		}
		if err != nil {
			return res, err
		}
		s.Name = fname
		res.img, err = renderSpectrum(s)
		if err != nil {
			return res, err
		}
		res.rows, res.cols = s.Len(), 1
		res.write = func(oname string) error { return eem.WriteSpectrum(oname, s) }
		return res, nil
	}

	return res, errors.Errorf("unknown export kind %q", kind)
}

func renderMatrix(m eem.Matrix) ([]byte, error) {
	const (
		width  = 20 * vg.Centimeter
		height = 30 * vg.Centimeter
	)

	c := vgimg.PngCanvas{Canvas: vgimg.New(width, height)}
	err := eem.Plot(draw.New(c), m)
	if err != nil {
		return nil, errors.Wrap(err, "could not create in-memory plot")
	}

	img := new(bytes.Buffer)
	_, err = c.WriteTo(img)
	if err != nil {
		return nil, errors.Wrap(err, "could not create image plot")
	}
	return img.Bytes(), nil
}

func renderSpectrum(s eem.Spectrum) ([]byte, error) {
	const (
		width  = 20 * vg.Centimeter
		height = 15 * vg.Centimeter
	)

	p := hplot.New()
	p.Title.Text = s.Name
	p.X.Label.Text = s.Axis
	p.Y.Label.Text = s.Quantity

	line, err := hplot.NewLine(s)
	if err != nil {
		return nil, errors.Wrap(err, "could not create new-line")
	}
	line.LineStyle.Color = color.RGBA{R: 255, A: 255}
	p.Add(line, hplot.NewGrid())

	c := vgimg.PngCanvas{Canvas: vgimg.New(width, height)}
	p.Draw(draw.New(c))

	img := new(bytes.Buffer)
	_, err = c.WriteTo(img)
	if err != nil {
		return nil, errors.Wrap(err, "could not create image plot")
	}
	return img.Bytes(), nil
}

const page = `<html>
<head>
	<title>EEM decoder</title>

	<meta name="viewport" content="width=device-width, initial-scale=1">
	<link rel="stylesheet" href="https://www.w3schools.com/w3css/3/w3.css">
	<script src="https://ajax.googleapis.com/ajax/libs/jquery/3.1.1/jquery.min.js"></script>

	<style>
	input[type=submit] {
		background-color: #F44336;
		padding:5px 15px;
		border:0 none;
		cursor:pointer;
		border-radius: 5px;
	}
	</style>

<script type="text/javascript">
	"use strict"

	function run() {
		var id = uuidv4();
		var file = $("#app-form input")[0].files[0];
		var uri = $("#input-file").val();
		var kind = $("#kind").val();

		var data = new FormData();
		data.append("kind", kind);
		data.append("input-file", file, uri);
		data.append("id", id);

		$.ajax({
			url: "/decode",
			method: "POST",
			data: data,
			processData: false,
			contentType: false,
			success: function(data, status) {
				showResult(data, status, id);
			},
			error: function(e) {
				alert("decoding failed: "+e.responseText);
			}
		});
	};

	function uuidv4() {
		return 'xxxxxxxx-xxxx-4xxx-yxxx-xxxxxxxxxxxx'.replace(/[xy]/g, function(c) {
			var r = Math.random() * 16 | 0, v = c == 'x' ? r : (r & 0x3 | 0x8);
			return v.toString(16);
		});
	}

	function showResult(data, status, id) {
		var node = $("<div></div>");
		node.attr("id", id);
		node.addClass("w3-panel w3-white w3-card-2 w3-center");
		node.html(
			"<p>"+data.kind+": "+data.rows+" &times; "+data.cols+"</p>"
			+"<img style=\"max-width:100%\" src=\"data:image/png;base64, "+data.data+"\" />"
			+"<span onclick=\"this.parentElement.style.display='none'; dropResult('"+id+"')\" class=\"w3-button w3-display-topright w3-hover-red w3-tiny\">X</span>"
			+"<form>\n"
			+" <input type=\"button\" value=\"Download CSV\" onclick=\"window.location.href='/fetch?id="+id+"'\"/>\n"
			+"</form>\n"
		);
		$("#app-display").prepend(node);
	};

	function dropResult(id) {
		var data = new FormData();
		data.append("id", id);

		$.ajax({
			url: "/drop",
			method: "POST",
			data: data,
			processData: false,
			contentType: false,
			error: function(e) {
				alert("removing ["+id+"] failed: "+e);
			}
		});

		$("#"+id).remove();
	}

</script>
</head>
<body>

<div id="app-sidebar" class="w3-sidebar w3-bar-block w3-card-4 w3-light-grey" style="width:25%">
	<div class="w3-bar-item w3-card-2 w3-black">
		<h2>EEM decoder</h2>
	</div>
	<div class="w3-bar-item">
		<form id="app-form" enctype="multipart/form-data">
			File:
			<input id="input-file" type="file" name="input-file"/>
			<br>
			Kind:
			<select id="kind" name="kind">
				<option value="eem">3D scan (EEM)</option>
				<option value="absorbance">Absorbance</option>
				<option value="raman">Water Raman</option>
			</select>
			<br>
			<input type="button" onclick="run()" value="Decode">
		</form>
	</div>
</div>

<div style="margin-left:25%; height:100%" class="w3-grey" id="app-container">
	<div class="w3-container w3-content w3-center w3-grey" style="width:100%" id="app-display">
	</div>
</div>

</body>
</html>
`
