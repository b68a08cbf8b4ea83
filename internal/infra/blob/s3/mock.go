package s3

import (
	"bufio"
	"bytes"
	"context"
	"encoding/xml"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

// NewMockForTests returns a Store whose HTTP transport is an in-memory fake
// covering the object calls the blob contract makes.
func NewMockForTests() *Store {
	store, err := New(context.Background(), Config{
		Bucket:          "mock-bucket",
		Region:          "us-east-1",
		Endpoint:        "https://mock.s3.local",
		AccessKeyID:     "AKIA",
		SecretAccessKey: "SECRET",
		PathStyle:       true,
		HTTPClient:      &http.Client{Transport: newObjectServer()},
	})
	if err != nil {
		panic(err)
	}
	return store
}

type storedObject struct {
	body        []byte
	contentType string
	modified    time.Time
}

// objectServer answers path-style object requests for a single bucket.
type objectServer struct {
	mu      sync.Mutex
	objects map[string]storedObject
}

func newObjectServer() *objectServer {
	return &objectServer{objects: make(map[string]storedObject)}
}

func (o *objectServer) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Body != nil {
		defer req.Body.Close()
	}
	o.mu.Lock()
	defer o.mu.Unlock()

	_, key, _ := strings.Cut(strings.TrimPrefix(req.URL.Path, "/"), "/")
	switch {
	case req.Method == http.MethodGet && req.URL.Query().Get("list-type") == "2":
		return o.list(req.URL.Query().Get("prefix"))
	case req.Method == http.MethodHead:
		return o.head(key), nil
	case req.Method == http.MethodGet:
		return o.get(key), nil
	case req.Method == http.MethodPut:
		return o.put(key, req)
	case req.Method == http.MethodDelete:
		delete(o.objects, key)
		return respond(http.StatusNoContent, nil, nil), nil
	}
	return respond(http.StatusNotImplemented, nil, nil), nil
}

func (o *objectServer) head(key string) *http.Response {
	obj, ok := o.objects[key]
	if !ok {
		return respond(http.StatusNotFound, nil, nil)
	}
	return respond(http.StatusOK, obj.headers(), nil)
}

func (o *objectServer) get(key string) *http.Response {
	obj, ok := o.objects[key]
	if !ok {
		return respond(http.StatusNotFound, nil, nil)
	}
	return respond(http.StatusOK, obj.headers(), obj.body)
}

func (o *objectServer) put(key string, req *http.Request) (*http.Response, error) {
	body, err := io.ReadAll(req.Body)
	if err != nil {
		return nil, err
	}
	if decoded, ok := decodeAWSChunked(body); ok {
		body = decoded
	}
	if _, exists := o.objects[key]; !exists {
		o.objects[key] = storedObject{body: body, contentType: req.Header.Get("Content-Type"), modified: time.Now().UTC()}
	}
	return respond(http.StatusOK, http.Header{"ETag": {`"mock"`}}, nil), nil
}

type listEntry struct {
	Key          string `xml:"Key"`
	Size         int    `xml:"Size"`
	LastModified string `xml:"LastModified"`
}

type listResult struct {
	XMLName     xml.Name    `xml:"ListBucketResult"`
	IsTruncated bool        `xml:"IsTruncated"`
	Contents    []listEntry `xml:"Contents"`
}

func (o *objectServer) list(prefix string) (*http.Response, error) {
	keys := make([]string, 0, len(o.objects))
	for k := range o.objects {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	result := listResult{}
	for _, k := range keys {
		obj := o.objects[k]
		result.Contents = append(result.Contents, listEntry{
			Key:          k,
			Size:         len(obj.body),
			LastModified: obj.modified.Format(time.RFC3339),
		})
	}
	payload, err := xml.Marshal(result)
	if err != nil {
		return nil, err
	}
	return respond(http.StatusOK, http.Header{"Content-Type": {"application/xml"}}, payload), nil
}

func (obj storedObject) headers() http.Header {
	return http.Header{
		"Content-Length": {strconv.Itoa(len(obj.body))},
		"Content-Type":   {obj.contentType},
		"ETag":           {`"mock"`},
		"Last-Modified":  {obj.modified.Format(http.TimeFormat)},
	}
}

func respond(status int, header http.Header, body []byte) *http.Response {
	if header == nil {
		header = http.Header{}
	}
	return &http.Response{
		StatusCode:    status,
		Header:        header,
		Body:          io.NopCloser(bytes.NewReader(body)),
		ContentLength: int64(len(body)),
	}
}

// decodeAWSChunked strips aws-chunked framing: hex size lines (optionally
// carrying ";chunk-signature=..."), each followed by that many bytes, ending
// with a zero-size chunk and optional trailers.
func decodeAWSChunked(raw []byte) ([]byte, bool) {
	r := bufio.NewReader(bytes.NewReader(raw))
	var out bytes.Buffer
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return nil, false
		}
		sizeField, _, _ := strings.Cut(strings.TrimSpace(line), ";")
		size, err := strconv.ParseInt(sizeField, 16, 64)
		if err != nil || size < 0 {
			return nil, false
		}
		if size == 0 {
			return out.Bytes(), true
		}
		if _, err := io.CopyN(&out, r, size); err != nil {
			return nil, false
		}
		if crlf, err := r.ReadString('\n'); err != nil || strings.TrimSpace(crlf) != "" {
			return nil, false
		}
	}
}
