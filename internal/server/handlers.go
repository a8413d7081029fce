package server

import (
	"io"
	"net/http"
	"strings"

	"github.com/jobkit/cv-copilot/internal/analyzer"
	"github.com/jobkit/cv-copilot/internal/document"

	"github.com/gin-gonic/gin"
)

type analyzeRequest struct {
	CVText string `json:"cv_text"`
}

type matchRequest struct {
	CVText         string `json:"cv_text"`
	JobDescription string `json:"job_description" binding:"required"`
}

type coverLetterRequest struct {
	CVText         string `json:"cv_text"`
	JobDescription string `json:"job_description" binding:"required"`
	Company        string `json:"company" binding:"required"`
	// Evaluate additionally runs the letter quality check and returns its
	// result alongside the letter.
	Evaluate bool `json:"evaluate"`
}

type jobAnalysisRequest struct {
	JobDescription string `json:"job_description" binding:"required"`
}

func (s *Server) analyze(c *gin.Context) {
	cvText, ok := s.cvTextFromRequest(c, func(c *gin.Context) (string, bool) {
		var req analyzeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			return "", false
		}
		return req.CVText, true
	})
	if !ok {
		return
	}

	analysis, err := s.analyzer.AnalyzeCV(c.Request.Context(), cvText)
	if err != nil {
		s.errorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"analysis": analysis,
		"score":    analyzer.Score(analysis),
	})
}

func (s *Server) match(c *gin.Context) {
	var jobDescription string

	cvText, ok := s.cvTextFromRequest(c, func(c *gin.Context) (string, bool) {
		var req matchRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			return "", false
		}
		jobDescription = req.JobDescription
		return req.CVText, true
	})
	if !ok {
		return
	}

	if jobDescription == "" {
		jobDescription = c.PostForm("job_description")
	}
	if strings.TrimSpace(jobDescription) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "job_description is required"})
		return
	}

	result, err := s.analyzer.MatchJob(c.Request.Context(), cvText, jobDescription)
	if err != nil {
		s.errorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (s *Server) coverLetter(c *gin.Context) {
	var req coverLetterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if strings.TrimSpace(req.CVText) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cv_text is required"})
		return
	}

	letter, err := s.analyzer.CoverLetter(c.Request.Context(), req.CVText, req.JobDescription, req.Company)
	if err != nil {
		s.errorResponse(c, err)
		return
	}

	response := gin.H{"cover_letter": letter}
	if req.Evaluate {
		evaluation, err := s.analyzer.EvaluateLetter(c.Request.Context(), letter, req.JobDescription, req.Company)
		if err != nil {
			s.errorResponse(c, err)
			return
		}
		response["evaluation"] = evaluation
	}

	c.JSON(http.StatusOK, response)
}

func (s *Server) analyzeJob(c *gin.Context) {
	var req jobAnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	analysis, err := s.analyzer.AnalyzeJob(c.Request.Context(), req.JobDescription)
	if err != nil {
		s.errorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, analysis)
}

func (s *Server) optimize(c *gin.Context) {
	var jobDescription string

	cvText, ok := s.cvTextFromRequest(c, func(c *gin.Context) (string, bool) {
		var req matchRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			return "", false
		}
		jobDescription = req.JobDescription
		return req.CVText, true
	})
	if !ok {
		return
	}

	if jobDescription == "" {
		jobDescription = c.PostForm("job_description")
	}
	if strings.TrimSpace(jobDescription) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "job_description is required"})
		return
	}

	result, err := s.analyzer.OptimizeCV(c.Request.Context(), cvText, jobDescription)
	if err != nil {
		s.errorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (s *Server) evaluate(c *gin.Context) {
	cvText, ok := s.cvTextFromRequest(c, func(c *gin.Context) (string, bool) {
		var req analyzeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			return "", false
		}
		return req.CVText, true
	})
	if !ok {
		return
	}

	evaluation, err := s.analyzer.EvaluateCV(c.Request.Context(), cvText)
	if err != nil {
		s.errorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, evaluation)
}

// cvTextFromRequest reads the CV either from a multipart upload (cv_file,
// extracted by format) or from the JSON body (cv_text). Responds with 400 and
// returns false when no usable text arrives.
func (s *Server) cvTextFromRequest(c *gin.Context, fromJSON func(*gin.Context) (string, bool)) (string, bool) {
	var cvText string

	if strings.Contains(c.ContentType(), "multipart/form-data") {
		file, header, err := c.Request.FormFile("cv_file")
		if err != nil {
			cvText = c.PostForm("cv_text")
		} else {
			defer file.Close()

			data, err := io.ReadAll(file)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read cv file"})
				return "", false
			}

			cvText, err = document.Extract(header.Filename, data)
			if err != nil {
				s.errorResponse(c, err)
				return "", false
			}
		}
	} else {
		text, ok := fromJSON(c)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return "", false
		}
		cvText = text
	}

	if strings.TrimSpace(cvText) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cv_text or cv_file is required"})
		return "", false
	}

	return cvText, true
}
