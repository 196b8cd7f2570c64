package detector

import (
	"regexp"
	"strings"
)

// Rule is one entry in the declarative detection table. Match receives the
// lowercased file content and the relative filename; a match adds Weight
// to the canonical key's evidence. Rule order is the tie-break when two
// keys would collide in display name.
type Rule struct {
	Category Category
	Key      string // canonical key, stable across files
	Name     string // display name
	Match    func(content, filename string) bool
	Weight   int
}

// contains returns a predicate matching any of the given lowercase
// substrings.
func contains(subs ...string) func(string, string) bool {
	return func(content, _ string) bool {
		for _, s := range subs {
			if strings.Contains(content, s) {
				return true
			}
		}
		return false
	}
}

// word returns a predicate matching the given pattern as a regexp against
// the lowercased content.
func word(pattern string) func(string, string) bool {
	re := regexp.MustCompile(pattern)
	return func(content, _ string) bool {
		return re.MatchString(content)
	}
}

// Rules is the ordered detection table. Rules are data: adding a service
// never requires touching the scanning loop.
var Rules = []Rule{
	// Compute
	{CategoryCompute, "aws_lambda", "AWS Lambda", word(`aws_lambda|\blambda\b`), 2},
	{CategoryCompute, "aws_ec2", "AWS EC2", word(`aws_instance\b|\bec2\b`), 2},
	{CategoryCompute, "kubernetes", "Kubernetes", word(`kubernetes|\bk8s\b|\bkubectl\b`), 2},
	{CategoryCompute, "docker", "Docker", func(content, filename string) bool {
		return strings.Contains(content, "docker") || strings.HasSuffix(filename, "Dockerfile")
	}, 1},

	// Storage
	{CategoryStorage, "aws_s3", "AWS S3", word(`aws_s3|\bs3\b`), 2},

	// Database
	{CategoryDatabase, "aws_rds", "AWS RDS", word(`aws_db_instance\b|\brds\b`), 2},
	{CategoryDatabase, "aws_dynamodb", "AWS DynamoDB", contains("dynamodb"), 2},
	{CategoryDatabase, "postgresql", "PostgreSQL", contains("postgres"), 2},
	{CategoryDatabase, "mysql", "MySQL", contains("mysql"), 2},
	{CategoryDatabase, "mongodb", "MongoDB", contains("mongodb", "mongoose"), 2},
	{CategoryDatabase, "redis", "Redis", contains("redis"), 2},

	// Networking
	{CategoryNetworking, "aws_apigateway", "AWS API Gateway", word(`api[_-]?gateway`), 2},
	{CategoryNetworking, "aws_cloudfront", "AWS CloudFront", contains("cloudfront"), 2},
	{CategoryNetworking, "aws_route53", "AWS Route 53", contains("route53", "route_53"), 2},
	{CategoryNetworking, "aws_vpc", "AWS VPC", word(`aws_vpc\b|\bvpc\b`), 1},
	{CategoryNetworking, "nginx", "Nginx", contains("nginx"), 1},

	// Security
	{CategorySecurity, "aws_iam", "AWS IAM", word(`aws_iam|\biam\b`), 1},
	{CategorySecurity, "aws_security_group", "AWS Security Group", contains("security_group"), 1},
	{CategorySecurity, "aws_cognito", "AWS Cognito", contains("cognito"), 2},

	// Framework
	{CategoryFramework, "react", "React", word(`\breact\b|react-dom`), 1},
	{CategoryFramework, "vue", "Vue.js", word(`\bvue\b`), 1},
	{CategoryFramework, "angular", "Angular", word(`\bangular\b`), 1},
	{CategoryFramework, "express", "Express.js", word(`\bexpress\b`), 1},
	{CategoryFramework, "django", "Django", contains("django"), 2},
	{CategoryFramework, "flask", "Flask", contains("flask"), 2},
	{CategoryFramework, "fastapi", "FastAPI", contains("fastapi"), 2},

	// Other
	{CategoryOther, "aws_sqs", "AWS SQS", word(`\bsqs\b`), 2},
	{CategoryOther, "aws_sns", "AWS SNS", word(`\bsns\b`), 2},
	{CategoryOther, "aws_cloudwatch", "AWS CloudWatch", contains("cloudwatch"), 2},
	{CategoryOther, "aws_kinesis", "AWS Kinesis", contains("kinesis"), 2},
	{CategoryOther, "aws_sdk", "AWS SDK", contains("boto3", "@aws-sdk", "aws-sdk"), 1},
	{CategoryOther, "terraform", "Terraform", word(`\bterraform\b`), 1},
	{CategoryOther, "azure", "Microsoft Azure", word(`\bazure\b`), 1},
	{CategoryOther, "gcp", "Google Cloud Platform", word(`google[._-]cloud|\bgcp\b`), 1},
}

// resourceTypeMap maps Terraform resource types to (canonical key,
// category, display name). Resource types not listed here fall back to a
// key derived from the type itself, categorized as Other.
var resourceTypeMap = map[string]struct {
	Key      string
	Category Category
	Name     string
}{
	"aws_s3_bucket":               {"aws_s3", CategoryStorage, "AWS S3"},
	"aws_instance":                {"aws_ec2", CategoryCompute, "AWS EC2"},
	"aws_lambda_function":         {"aws_lambda", CategoryCompute, "AWS Lambda"},
	"aws_ecs_service":             {"aws_ecs", CategoryCompute, "AWS ECS"},
	"aws_eks_cluster":             {"aws_eks", CategoryCompute, "AWS EKS"},
	"aws_db_instance":             {"aws_rds", CategoryDatabase, "AWS RDS"},
	"aws_dynamodb_table":          {"aws_dynamodb", CategoryDatabase, "AWS DynamoDB"},
	"aws_elasticache_cluster":     {"redis", CategoryDatabase, "Redis"},
	"aws_vpc":                     {"aws_vpc", CategoryNetworking, "AWS VPC"},
	"aws_cloudfront_distribution": {"aws_cloudfront", CategoryNetworking, "AWS CloudFront"},
	"aws_route53_zone":            {"aws_route53", CategoryNetworking, "AWS Route 53"},
	"aws_api_gateway_rest_api":    {"aws_apigateway", CategoryNetworking, "AWS API Gateway"},
	"aws_security_group":          {"aws_security_group", CategorySecurity, "AWS Security Group"},
	"aws_iam_role":                {"aws_iam", CategorySecurity, "AWS IAM"},
	"aws_iam_policy":              {"aws_iam", CategorySecurity, "AWS IAM"},
	"aws_sqs_queue":               {"aws_sqs", CategoryOther, "AWS SQS"},
	"aws_sns_topic":               {"aws_sns", CategoryOther, "AWS SNS"},
	"aws_kinesis_stream":          {"aws_kinesis", CategoryOther, "AWS Kinesis"},
	"aws_cloudwatch_log_group":    {"aws_cloudwatch", CategoryOther, "AWS CloudWatch"},
}
