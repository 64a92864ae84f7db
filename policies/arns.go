package policies

const (
	AmazonSSMManagedInstanceCore         = "arn:aws:iam::aws:policy/AmazonSSMManagedInstanceCore"
	AmazonEC2ContainerRegistryReadOnly   = "arn:aws:iam::aws:policy/AmazonEC2ContainerRegistryReadOnly"
	AWSLambdaBasicExecutionRole          = "arn:aws:iam::aws:policy/service-role/AWSLambdaBasicExecutionRole"
	CloudWatchAgentServerPolicy          = "arn:aws:iam::aws:policy/CloudWatchAgentServerPolicy"
)
