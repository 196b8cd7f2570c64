package cost

// basePrice is a monthly/yearly USD range under typical usage assumptions.
type basePrice struct {
	MonthlyMin  float64
	MonthlyMax  float64
	YearlyMin   float64
	YearlyMax   float64
	Assumptions string
}

// pricing maps canonical service keys to base cost ranges (USD). Keys
// absent from this table are omitted from cost output entirely.
var pricing = map[string]basePrice{
	// AWS services
	"aws_lambda":     {5, 50, 60, 600, "1M requests/month, 128MB memory"},
	"aws_s3":         {10, 100, 120, 1200, "100GB storage, standard tier"},
	"aws_ec2":        {20, 200, 240, 2400, "t3.micro to t3.medium instances"},
	"aws_rds":        {25, 300, 300, 3600, "db.t3.micro to db.t3.medium"},
	"aws_dynamodb":   {15, 150, 180, 1800, "25GB storage, on-demand"},
	"aws_kinesis":    {20, 200, 240, 2400, "1 shard, 1M records/month"},
	"aws_sqs":        {1, 20, 12, 240, "1M requests/month"},
	"aws_sns":        {2, 25, 24, 300, "1M notifications/month"},
	"aws_cloudwatch": {5, 50, 60, 600, "Basic monitoring"},
	"aws_apigateway": {10, 100, 120, 1200, "1M API calls/month"},
	"aws_cloudfront": {5, 60, 60, 720, "1TB transfer/month"},

	// Databases
	"postgresql": {0, 50, 0, 600, "Self-hosted or managed service"},
	"mysql":      {0, 40, 0, 480, "Self-hosted or managed service"},
	"mongodb":    {0, 60, 0, 720, "Atlas M10 cluster or self-hosted"},
	"redis":      {0, 30, 0, 360, "ElastiCache or self-hosted"},

	// Frameworks (hosting costs)
	"fastapi": {5, 50, 60, 600, "Container hosting (1-4 instances)"},
	"django":  {10, 80, 120, 960, "Web hosting with database"},
	"flask":   {5, 40, 60, 480, "Basic web hosting"},
	"express": {5, 50, 60, 600, "Node.js hosting"},
	"react":   {0, 20, 0, 240, "Static hosting (Netlify/Vercel)"},
	"vue":     {0, 20, 0, 240, "Static hosting"},
	"angular": {0, 25, 0, 300, "Static hosting"},

	// Infrastructure
	"docker":     {10, 100, 120, 1200, "Container registry + hosting"},
	"kubernetes": {50, 500, 600, 6000, "Managed cluster (EKS/GKE/AKS)"},
	"terraform":  {0, 10, 0, 120, "Terraform Cloud (free tier available)"},
	"nginx":      {0, 20, 0, 240, "Load balancer service"},

	// Cloud platforms (base costs)
	"azure": {25, 250, 300, 3000, "Basic compute + storage"},
	"gcp":   {25, 250, 300, 3000, "Basic compute + storage"},
}

// maxScale caps the usage multiplier so repeated trivial matches cannot
// inflate an estimate without bound.
const maxScale = 3.0

// scaleFor converts a detected usage count into a cost multiplier.
func scaleFor(usage int) float64 {
	scale := 0.5 + 0.5*float64(usage)
	if scale > maxScale {
		return maxScale
	}
	return scale
}
