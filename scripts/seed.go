// One-off: go run scripts/seed.go [base-url]
// Posts a sample checkpoint with one attached file against a running server.
package main

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"time"
)

func main() {
	base := "http://localhost:8080"
	if len(os.Args) > 1 {
		base = os.Args[1]
	}

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	_ = w.WriteField("name", "Sprint Planning")
	_ = w.WriteField("todos", `["prepare board","invite team","fix bug"]`)
	_ = w.WriteField("date", time.Now().Format("2006-01-02"))
	fw, err := w.CreateFormFile("files", "notes.txt")
	if err != nil {
		panic(err)
	}
	fmt.Fprintln(fw, "seeded checkpoint notes")
	if err := w.Close(); err != nil {
		panic(err)
	}

	resp, err := http.Post(base+"/api/checkpoints", w.FormDataContentType(), &body)
	if err != nil {
		panic(err)
	}
	defer resp.Body.Close()
	out, _ := io.ReadAll(resp.Body)
	fmt.Printf("%s\n%s\n", resp.Status, out)
}
