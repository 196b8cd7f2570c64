package detector

import (
	"strings"
	"testing"
)

func TestParseResourceBlocks_Basic(t *testing.T) {
	content := `
resource "aws_s3_bucket" "data" {
  bucket = "my-data"
  versioning = true
  retention_days = 30
}
`
	blocks, ambiguity := parseResourceBlocks(content)
	if ambiguity != "" {
		t.Fatalf("unexpected ambiguity: %s", ambiguity)
	}
	if len(blocks) != 1 {
		t.Fatalf("got %d blocks, want 1", len(blocks))
	}

	b := blocks[0]
	if b.Type != "aws_s3_bucket" || b.Name != "data" {
		t.Errorf("block = %s/%s, want aws_s3_bucket/data", b.Type, b.Name)
	}
	if b.Body["bucket"] != "my-data" {
		t.Errorf("bucket = %v, want my-data", b.Body["bucket"])
	}
	if b.Body["versioning"] != true {
		t.Errorf("versioning = %v, want true", b.Body["versioning"])
	}
	if b.Body["retention_days"] != int64(30) {
		t.Errorf("retention_days = %v (%T), want int64 30", b.Body["retention_days"], b.Body["retention_days"])
	}
}

func TestParseResourceBlocks_NestedBlocks(t *testing.T) {
	content := `
resource "aws_instance" "web" {
  ami = "ami-123456"
  tags = {
    env = "prod"
  }
  ebs_block_device {
    volume_size = 100
  }
}
`
	blocks, ambiguity := parseResourceBlocks(content)
	if ambiguity != "" {
		t.Fatalf("unexpected ambiguity: %s", ambiguity)
	}
	if len(blocks) != 1 {
		t.Fatalf("got %d blocks, want 1", len(blocks))
	}

	tags, ok := blocks[0].Body["tags"].(map[string]any)
	if !ok {
		t.Fatalf("tags is %T, want map", blocks[0].Body["tags"])
	}
	if tags["env"] != "prod" {
		t.Errorf("tags.env = %v, want prod", tags["env"])
	}

	ebs, ok := blocks[0].Body["ebs_block_device"].(map[string]any)
	if !ok {
		t.Fatalf("ebs_block_device is %T, want map", blocks[0].Body["ebs_block_device"])
	}
	if ebs["volume_size"] != int64(100) {
		t.Errorf("volume_size = %v, want 100", ebs["volume_size"])
	}
}

func TestParseResourceBlocks_OneLineBlock(t *testing.T) {
	blocks, ambiguity := parseResourceBlocks(`resource "aws_s3_bucket" "empty" {}`)
	if ambiguity != "" {
		t.Fatalf("unexpected ambiguity: %s", ambiguity)
	}
	if len(blocks) != 1 {
		t.Fatalf("got %d blocks, want 1", len(blocks))
	}
	if blocks[0].Name != "empty" {
		t.Errorf("name = %q, want empty", blocks[0].Name)
	}
}

func TestParseResourceBlocks_MultipleBlocks(t *testing.T) {
	content := `
resource "aws_s3_bucket" "a" {
  bucket = "a"
}

resource "aws_sqs_queue" "b" {
  name = "b"
}
`
	blocks, _ := parseResourceBlocks(content)
	if len(blocks) != 2 {
		t.Fatalf("got %d blocks, want 2", len(blocks))
	}
	if blocks[0].Name != "a" || blocks[1].Name != "b" {
		t.Errorf("block order wrong: %s, %s", blocks[0].Name, blocks[1].Name)
	}
}

// A malformed trailing block is dropped with a reason; earlier blocks
// survive.
func TestParseResourceBlocks_UnbalancedBraces(t *testing.T) {
	content := `
resource "aws_s3_bucket" "good" {
  bucket = "ok"
}

resource "aws_sqs_queue" "broken" {
  name = "oops"
`
	blocks, ambiguity := parseResourceBlocks(content)
	if len(blocks) != 1 || blocks[0].Name != "good" {
		t.Fatalf("expected only the good block, got %v", blocks)
	}
	if !strings.Contains(ambiguity, "unbalanced braces") {
		t.Errorf("ambiguity = %q, want unbalanced braces mention", ambiguity)
	}
	if !strings.Contains(ambiguity, "broken") {
		t.Errorf("ambiguity %q does not name the malformed block", ambiguity)
	}
}

func TestParseResourceBlocks_BracesInStrings(t *testing.T) {
	content := `
resource "aws_iam_policy" "p" {
  policy = "{\"Version\": \"2012-10-17\"}"
}
`
	blocks, ambiguity := parseResourceBlocks(content)
	if ambiguity != "" {
		t.Fatalf("braces inside a string literal broke parsing: %s", ambiguity)
	}
	if len(blocks) != 1 {
		t.Fatalf("got %d blocks, want 1", len(blocks))
	}
}

func TestParseScalar(t *testing.T) {
	cases := []struct {
		in   string
		want any
	}{
		{`"hello"`, "hello"},
		{`true`, true},
		{`false`, false},
		{`42`, int64(42)},
		{`1.5`, 1.5},
		{`var.bucket_name`, "var.bucket_name"},
		{`"quoted",`, "quoted"},
	}
	for _, tc := range cases {
		if got := parseScalar(tc.in); got != tc.want {
			t.Errorf("parseScalar(%q) = %v (%T), want %v (%T)", tc.in, got, got, tc.want, tc.want)
		}
	}
}

// Formatting a parsed config and reparsing it preserves structure.
func TestFormatResourceBlock_RoundTrip(t *testing.T) {
	config := map[string]any{
		"bucket":     "my-data",
		"versioning": true,
		"tags": map[string]any{
			"env":  "prod",
			"team": "core",
		},
	}

	rendered := FormatResourceBlock("aws_s3_bucket", "data", config)
	blocks, ambiguity := parseResourceBlocks(rendered)
	if ambiguity != "" {
		t.Fatalf("round trip produced ambiguity: %s", ambiguity)
	}
	if len(blocks) != 1 {
		t.Fatalf("round trip produced %d blocks, want 1", len(blocks))
	}

	b := blocks[0]
	if b.Type != "aws_s3_bucket" || b.Name != "data" {
		t.Errorf("round trip header = %s/%s", b.Type, b.Name)
	}
	if b.Body["bucket"] != "my-data" || b.Body["versioning"] != true {
		t.Errorf("round trip body = %v", b.Body)
	}
	tags, ok := b.Body["tags"].(map[string]any)
	if !ok || tags["env"] != "prod" || tags["team"] != "core" {
		t.Errorf("round trip tags = %v", b.Body["tags"])
	}

	// A second format pass is byte-identical.
	if again := FormatResourceBlock("aws_s3_bucket", "data", b.Body); again != rendered {
		t.Errorf("format not idempotent:\n%s\nvs\n%s", rendered, again)
	}
}
