package notify

import (
	"context"
	"crypto/md5"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"google.golang.org/api/option"
)

const (
	testKey   = "0f8fad5b-d9cb-469f-a165-70867728950e.jpg"
	testQueue = "https://sqs.us-east-1.amazonaws.com/123456789012/toucan-uploads"
	testTopic = "projects/toucan/topics/uploads"
)

func testAWSConfig(srv *httptest.Server) aws.Config {
	return aws.Config{
		Region:      "us-east-1",
		Credentials: credentials.NewStaticCredentialsProvider("AKIDEXAMPLE", "secret", ""),
		HTTPClient:  srv.Client(),
		Retryer:     func() aws.Retryer { return aws.NopRetryer{} },
	}
}

func TestSQSNotifierPublish(t *testing.T) {
	var got struct {
		QueueUrl    string
		MessageBody string
	}
	var target string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		target = r.Header.Get("X-Amz-Target")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		sum := md5.Sum([]byte(got.MessageBody))
		w.Header().Set("Content-Type", "application/x-amz-json-1.0")
		json.NewEncoder(w).Encode(map[string]string{
			"MessageId":        "5fea7756-0ea4-451a-a703-a558b933e274",
			"MD5OfMessageBody": hex.EncodeToString(sum[:]),
		})
	}))
	defer srv.Close()

	n := NewSQSNotifier(testAWSConfig(srv), SQSOptions{Endpoint: srv.URL})
	if err := n.Publish(context.Background(), testQueue, testKey); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if target != "AmazonSQS.SendMessage" {
		t.Errorf("expected SendMessage target, got %q", target)
	}
	if got.QueueUrl != testQueue {
		t.Errorf("expected queue %s, got %s", testQueue, got.QueueUrl)
	}
	if got.MessageBody != testKey {
		t.Errorf("expected body exactly the key, got %q", got.MessageBody)
	}
}

func TestSQSNotifierPublishError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/x-amz-json-1.0")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"__type":"com.amazonaws.sqs#QueueDoesNotExist","message":"The specified queue does not exist."}`))
	}))
	defer srv.Close()

	n := NewSQSNotifier(testAWSConfig(srv), SQSOptions{Endpoint: srv.URL})
	if err := n.Publish(context.Background(), testQueue, testKey); err == nil {
		t.Fatal("expected error")
	}
}

func TestPubSubNotifierPublish(t *testing.T) {
	var path string
	var req struct {
		Messages []struct {
			Data string `json:"data"`
		} `json:"messages"`
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"messageIds":["1"]}`))
	}))
	defer srv.Close()

	n, err := NewPubSubNotifier(context.Background(),
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()),
	)
	if err != nil {
		t.Fatalf("create notifier: %v", err)
	}

	if err := n.Publish(context.Background(), testTopic, testKey); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.HasSuffix(path, "/projects/toucan/topics/uploads:publish") {
		t.Errorf("unexpected publish path %s", path)
	}
	if len(req.Messages) != 1 {
		t.Fatalf("expected one message, got %d", len(req.Messages))
	}
	data, err := base64.StdEncoding.DecodeString(req.Messages[0].Data)
	if err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if string(data) != testKey {
		t.Errorf("expected body exactly the key, got %q", data)
	}
}

func TestPubSubNotifierRejectsQueueURL(t *testing.T) {
	n, err := NewPubSubNotifier(context.Background(),
		option.WithEndpoint("http://127.0.0.1:1/"),
		option.WithHTTPClient(http.DefaultClient),
	)
	if err != nil {
		t.Fatalf("create notifier: %v", err)
	}
	if err := n.Publish(context.Background(), testQueue, testKey); err == nil {
		t.Error("expected error for non-topic queue identifier")
	}
}

func TestIsTopicName(t *testing.T) {
	tests := map[string]bool{
		"projects/p/topics/t":  true,
		"projects//topics/t":   false,
		"projects/p/topics/":   false,
		"projects/p/subs/t":    false,
		testQueue:              false,
		"projects/p/topics/t/": false,
	}
	for in, want := range tests {
		if got := IsTopicName(in); got != want {
			t.Errorf("IsTopicName(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestPublishRequiresQueueAndBody(t *testing.T) {
	n := NewSQSNotifier(aws.Config{Region: "us-east-1"}, SQSOptions{})

	if err := n.Publish(context.Background(), "", testKey); !errors.Is(err, ErrNoQueue) {
		t.Errorf("expected ErrNoQueue, got %v", err)
	}
	if err := n.Publish(context.Background(), testQueue, ""); !errors.Is(err, ErrEmptyBody) {
		t.Errorf("expected ErrEmptyBody, got %v", err)
	}
}
