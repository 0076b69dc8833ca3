package services

import "time"

// nowFunc cho phép cố định thời gian trong test
var nowFunc = time.Now
